package util

import (
	"net/http"
	"strconv"
	"time"
)

var corsPreflightMaxAge = strconv.Itoa(int((10 * time.Minute).Seconds()))

// WithCORS adds permissive CORS headers so browser-based voice clients
// can fetch tokens and post turns during local development. Preflight
// requests are answered here and never reach the mux.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Max-Age", corsPreflightMaxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
