package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver receives one observation per served request.
type RequestObserver interface {
	ObserveRequest(route, method string, code int, elapsed time.Duration)
}

// RequestMetrics reports every request under its chi route pattern, so that
// /events/{id} is one series rather than one per event.
func RequestMetrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			observer.ObserveRequest(route, r.Method, code, time.Since(start))
		})
	}
}
