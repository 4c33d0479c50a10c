package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-manabase/internal/api/handlers"
	"github.com/ramonehamilton/mtg-manabase/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		manabaseHandler := handlers.NewManabaseHandler(s.lookup, s.metrics, s.logger)
		r.Post("/manabase", manabaseHandler.Calculate)
		r.Get("/formats", manabaseHandler.GetFormats)
		r.Get("/algorithms", manabaseHandler.GetAlgorithms)
		r.Post("/costs/parse", manabaseHandler.ParseCost)

		cardHandler := handlers.NewCardHandler(s.lookup)
		r.Get("/cards/{name}", cardHandler.GetCardByName)

		systemHandler := handlers.NewSystemHandler(s.metrics)
		r.Route("/system", func(r chi.Router) {
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/metrics", systemHandler.GetMetrics)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "mtg-manabase-api",
	})
}
