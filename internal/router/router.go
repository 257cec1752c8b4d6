package router

import (
	"net/http"

	"sera-scan-api/internal/handler"
	"sera-scan-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler      *handler.Handler
	ScanHandler  *handler.ScanHandler
	AdminHandler *handler.AdminHandler
	AdminGate    func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Login-Key"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Ingestion surface — the in-game clients speak these paths.
	if cfg.ScanHandler != nil {
		r.Post("/receive", cfg.ScanHandler.Receive)
	}
	if cfg.Handler != nil {
		r.Get("/health", cfg.Handler.Health)
		r.Get("/api/status", cfg.Handler.Status)
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Handler != nil {
			r.Get("/state", cfg.Handler.State)
		}

		if cfg.AdminHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				if cfg.AdminGate != nil {
					r.Use(cfg.AdminGate)
				}
				r.Get("/stats", cfg.AdminHandler.GetStats)
				r.Get("/logs", cfg.AdminHandler.GetLogs)
			})
		}
	})

	return r
}
