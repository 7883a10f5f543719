// internal/server/server.go
//
// Admin HTTP surface for `stockroom serve`.
//
// Routes
// ------
//
//	GET /healthz         – pings the pool; 200 "ok" or 503.
//	GET /metrics         – Prometheus exposition (record collectors + pool).
//	GET /products/{id}   – one product as JSON; 404 when the row is absent.
//
// The server is read-only on purpose.  Writes go through the CLI so every
// mutation runs inside an explicit unit of work.
//
// Timeouts
// --------
//
//	ReadTimeout   – abort slow-loris headers (10 s)
//	WriteTimeout  – cap total response time (15 s)
//	IdleTimeout   – close keep-alives on idle clients (60 s)
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	adminmw "github.com/yanizio/stockroom/internal/middleware"
	"github.com/yanizio/stockroom/internal/product"
	"github.com/yanizio/stockroom/internal/record"
)

// New constructs an *http.Server with the admin router and hardened
// timeouts.
func New(addr string, db *sqlx.DB) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      Router(db),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Router wires the admin routes onto a chi mux.
func Router(db *sqlx.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(adminmw.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(adminmw.Headers)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			zap.S().Warnw("health check failed", "err", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/products/{id}", getProduct(db))
	return r
}

type productView struct {
	ID          int64   `json:"id"`
	GtinCode    *int64  `json:"gtin_code"`
	QtyInStock  int     `json:"qty_in_stock"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func getProduct(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "id must be a positive integer", http.StatusBadRequest)
			return
		}

		p, err := product.Get(r.Context(), db, id)
		switch {
		case errors.Is(err, record.ErrNotFound):
			http.NotFound(w, r)
			return
		case err != nil:
			zap.S().Errorw("product lookup failed",
				"id", id, "request_id", middleware.GetReqID(r.Context()), "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(productView{
			ID:          p.ID(),
			GtinCode:    p.GtinCode,
			QtyInStock:  p.QtyInStock,
			Name:        p.Name,
			Description: p.Description,
		})
	}
}
