// Package http provides the HTTP handlers, middleware and routing for the
// loan service.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// RouterConfig carries the handlers and middleware the router wires up.
type RouterConfig struct {
	LoanHandler      *LoanHandler
	PortfolioHandler *PortfolioHandler
	TierHandler      *TierHandler
	RateLimiter      *RateLimiter
	Log              zerolog.Logger
}

// NewRouter builds the chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, cfg.Log, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(cfg.RateLimiter))

		r.Post("/loan/evaluate", cfg.LoanHandler.EvaluateLoan)
		r.Post("/loan/calculate", cfg.PortfolioHandler.CalculateLoan)

		r.Get("/tiers", cfg.TierHandler.ListTiers)
		r.Get("/tiers/{name}", cfg.TierHandler.GetTier)
		r.Get("/risk/classify", cfg.TierHandler.ClassifyScore)
	})

	return r
}
