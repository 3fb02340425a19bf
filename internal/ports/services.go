package ports

import (
	"context"

	"github.com/jsamuelsen11/sitesmith/internal/domain/project"
)

// ProjectService defines the service port for project workspace operations.
// Implemented by the application layer; called by inbound adapters (HTTP
// handlers, CLI commands).
//
// Create and rename are all-or-nothing: on error the workspace is left as it
// was before the call.
type ProjectService interface {
	// CreateProject creates a project directory from the site template and
	// returns its path.
	// Returns domain.ErrValidation if the name is invalid and
	// domain.ErrConflict if the project already exists.
	CreateProject(ctx context.Context, name string) (string, error)

	// RenameProject renames a project directory and rewrites its manifest
	// and cross-references to the new name.
	// Returns domain.ErrNotFound if oldName does not exist and
	// domain.ErrConflict if newName does.
	RenameProject(ctx context.Context, oldName, newName string) (bool, error)

	// ValidateName checks a candidate project name without touching disk.
	ValidateName(name string) project.NameValidation

	// ListProjects returns every project in the workspace, sorted by name.
	ListProjects(ctx context.Context) ([]project.Project, error)

	// GetProject returns a single project by name.
	// Returns domain.ErrNotFound if the project does not exist.
	GetProject(ctx context.Context, name string) (*project.Project, error)
}
