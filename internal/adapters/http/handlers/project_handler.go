// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"
	"net/url"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/dto"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// ProjectHandler handles HTTP requests for project workspace operations.
type ProjectHandler struct {
	svc ports.ProjectService
}

// NewProjectHandler creates a new ProjectHandler with the given service port.
func NewProjectHandler(svc ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects handles GET /api/v1/projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ListProjects(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToProjectListResponse(projects))
}

// CreateProject handles POST /api/v1/projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	path, err := h.svc.CreateProject(r.Context(), req.Name)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+url.PathEscape(req.Name))
	writeJSON(w, r, http.StatusCreated, dto.CreateProjectResponse{Name: req.Name, Path: path})
}

// GetProject handles GET /api/v1/projects/{name}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	name, err := pathName(r, "name")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	p, err := h.svc.GetProject(r.Context(), name)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToProjectResponse(p))
}

// RenameProject handles PATCH /api/v1/projects/{name}.
func (h *ProjectHandler) RenameProject(w http.ResponseWriter, r *http.Request) {
	oldName, err := pathName(r, "name")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.RenameProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	renamed, err := h.svc.RenameProject(r.Context(), oldName, req.Name)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RenameProjectResponse{
		OldName: oldName,
		NewName: req.Name,
		Renamed: renamed,
	})
}

// ValidateName handles POST /api/v1/names/validate. An invalid name is a
// successful check, so the response is always 200 once the body parses.
func (h *ProjectHandler) ValidateName(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateNameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToNameValidationResponse(h.svc.ValidateName(*req.Name)))
}
