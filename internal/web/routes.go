package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/saliency-bias/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	resultsHandler := handlers.NewResultsHandler(s.reader)
	groupsHandler := handlers.NewGroupsHandler(s.opts.GroupCounts)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/groups", groupsHandler.List)
		r.Get("/results", resultsHandler.List)
		r.Get("/results/{key}", resultsHandler.Get)
	})
}
