// Package project holds the sitesmith HTTP API wire schemas and their
// translation to domain project types.
package project

// ProjectDTO matches the server's project representation.
type ProjectDTO struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	ManifestName string `json:"manifest_name"`
	UpdatedAt    string `json:"updated_at"`
}

// ProjectListDTO matches the server's project list response.
type ProjectListDTO struct {
	Projects []ProjectDTO `json:"projects"`
	Count    int          `json:"count"`
}

// NameRequestDTO is the body of create and rename calls.
type NameRequestDTO struct {
	Name string `json:"name"`
}

// CreatedDTO is returned by POST /api/v1/projects.
type CreatedDTO struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// RenamedDTO is returned by PATCH /api/v1/projects/{name}.
type RenamedDTO struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	Renamed bool   `json:"renamed"`
}
