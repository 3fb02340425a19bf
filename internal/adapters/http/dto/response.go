// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/sitesmith/internal/domain/project"
)

// ProjectResponse represents a single project in HTTP responses.
type ProjectResponse struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	ManifestName string `json:"manifest_name,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// ProjectListResponse represents a list of projects in HTTP responses.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Count    int               `json:"count"`
}

// CreateProjectResponse is returned after a project is created.
type CreateProjectResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// RenameProjectResponse is returned after a rename.
type RenameProjectResponse struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	Renamed bool   `json:"renamed"`
}

// NameValidationResponse reports the outcome of a name check.
type NameValidationResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ToProjectResponse converts a domain Project to an HTTP response DTO.
func ToProjectResponse(p *project.Project) ProjectResponse {
	resp := ProjectResponse{
		Name:         p.Name,
		Path:         p.Path,
		ManifestName: p.ManifestName,
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// ToProjectListResponse converts a slice of domain Projects to an HTTP list
// response DTO.
func ToProjectListResponse(projects []project.Project) ProjectListResponse {
	items := make([]ProjectResponse, len(projects))
	for i := range projects {
		items[i] = ToProjectResponse(&projects[i])
	}
	return ProjectListResponse{
		Projects: items,
		Count:    len(items),
	}
}

// ToNameValidationResponse converts a domain NameValidation.
func ToNameValidationResponse(v project.NameValidation) NameValidationResponse {
	return NameValidationResponse{Valid: v.Valid, Error: v.Error}
}
