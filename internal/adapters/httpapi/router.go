package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries optional router wiring.
type RouterOptions struct {
	// Ready, when set, backs a readiness probe that checks downstream
	// dependencies (the database pool, in practice).
	Ready func(context.Context) error
}

// NewRouter constructs the API HTTP router around a Server.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Liveness only: always 200 while the process serves requests.
	r.Get("/health_check", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Ready != nil {
		r.Get("/health_check/ready", func(w http.ResponseWriter, req *http.Request) {
			if err := opts.Ready(req.Context()); err != nil {
				writeError(w, req, http.StatusServiceUnavailable, "NOT_READY", "a dependency is unavailable")
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}

	r.Post("/subscriptions", s.handleSubscribe)
	r.Get("/subscriptions/confirm", s.handleConfirm)
	r.Post("/newsletters", s.handlePublish)

	return r
}
