// Package http is the inbound HTTP adapter: routes, middleware and the
// server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/dto"
	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/handlers"
)

// NewRouter registers every route behind middlewares, applied outermost
// first. Unknown routes and methods get problem documents like every other
// failure.
func NewRouter(
	projects *handlers.ProjectHandler,
	health *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteStatusResponse(w, r, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteStatusResponse(w, r, http.StatusMethodNotAllowed)
	})

	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/projects", projects.ListProjects)
		r.Post("/projects", projects.CreateProject)
		r.Get("/projects/{name}", projects.GetProject)
		r.Patch("/projects/{name}", projects.RenameProject)
		// Dry run; never touches the workspace.
		r.Post("/names/validate", projects.ValidateName)
	})

	return r
}
