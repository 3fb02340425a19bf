package project

import (
	"time"

	domainproject "github.com/jsamuelsen11/sitesmith/internal/domain/project"
)

// ToDomainProject converts a ProjectDTO to a domain Project. An absent or
// malformed timestamp leaves UpdatedAt zero.
func ToDomainProject(dto ProjectDTO) domainproject.Project {
	updatedAt, _ := time.Parse(time.RFC3339, dto.UpdatedAt)

	return domainproject.Project{
		Name:         dto.Name,
		Path:         dto.Path,
		ManifestName: dto.ManifestName,
		UpdatedAt:    updatedAt,
	}
}

// ToDomainProjectList converts a ProjectListDTO to a non-nil slice of domain
// Projects.
func ToDomainProjectList(dto ProjectListDTO) []domainproject.Project {
	projects := make([]domainproject.Project, len(dto.Projects))
	for i := range dto.Projects {
		projects[i] = ToDomainProject(dto.Projects[i])
	}
	return projects
}
