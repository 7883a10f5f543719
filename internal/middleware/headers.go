// internal/middleware/headers.go
//
// Response-header middleware for the admin API.
//
// Sets on every response:
//
//   • X-Content-Type-Options  –  MIME-sniffing defence
//   • X-Frame-Options         –  the API is never framed
//   • Cache-Control           –  inventory rows are live data; never cache
//   • Referrer-Policy         –  drop the Referer entirely
//
// Notes
// -----
// • Headers are written *before* next.ServeHTTP; once a handler calls
//   WriteHeader the map is frozen.  A handler may still overwrite any of
//   them before it writes.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

var apiHeaders = [...][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Cache-Control", "no-store"},
	{"Referrer-Policy", "no-referrer"},
}

// Headers sets the admin API's fixed response headers.
func Headers(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range apiHeaders {
			h.Set(kv[0], kv[1])
		}
		next.ServeHTTP(w, r)
	})
}
