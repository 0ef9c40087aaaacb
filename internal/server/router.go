package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/pr-warden/internal/config"
	"github.com/sevigo/pr-warden/internal/core"
	"github.com/sevigo/pr-warden/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
// The webhook runs the whole review inside the request, so there is no
// request timeout middleware; each pipeline stage has its own deadline.
func NewRouter(cfg *config.Config, job core.Job, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(securityHeaders)
	r.Use(recoverer(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	webhookHandler := handler.NewWebhookHandler([]byte(cfg.GitHub.WebhookSecret), job, logger)
	r.Post("/webhook", webhookHandler.Handle)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/webhook/github", webhookHandler.Handle)
	})

	return r
}

// securityHeaders marks every response as non-sniffable and locks down content sources.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a panic in a handler into a 500 with a fixed body.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic while handling request",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)
				http.Error(w, handler.InternalErrorBody, http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
