package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHeaders(t *testing.T) {
	h := Headers(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=5")
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "max-age=5", rr.Header().Get("Cache-Control"), "handler override kept")
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/1", nil))

	entries := logs.FilterMessage("admin request").All()
	if assert.Len(t, entries, 1) {
		e := entries[0]
		assert.Equal(t, zap.WarnLevel, e.Level)
		assert.EqualValues(t, 500, e.ContextMap()["status"])
		assert.Equal(t, "/products/1", e.ContextMap()["path"])
	}
}
