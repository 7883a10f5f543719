// internal/middleware/accesslog.go
//
// One structured log line per admin request.
//
// Fields: method, path, status, bytes, duration, and the chi request id.
// 5xx responses log at WARN, everything else at DEBUG so a quiet server
// stays quiet at the default level.

package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// AccessLog logs through the global sugared logger at request end.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log := zap.S().Debugw
		if status >= 500 {
			log = zap.S().Warnw
		}
		log("admin request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
