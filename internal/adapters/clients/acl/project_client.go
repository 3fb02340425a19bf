package acl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/clients/acl/project"
	domainproject "github.com/jsamuelsen11/sitesmith/internal/domain/project"
	"github.com/jsamuelsen11/sitesmith/internal/platform/httpclient"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// Compile-time interface check.
var _ ports.ProjectService = (*ProjectClient)(nil)

const projectsPath = "/api/v1/projects"

// ProjectClient implements [ports.ProjectService] against a running sitesmith
// server. Server responses are translated into domain types by [project] and
// failures into domain errors by [TranslateHTTPError], so a caller cannot
// tell whether it is talking to the local service or a remote one.
//
// Create and rename are sent once. The underlying [httpclient.Client] only
// retries idempotent reads.
type ProjectClient struct {
	req    *Requester
	logger *slog.Logger
}

// NewProjectClient creates a ProjectClient that sends requests through the
// given [httpclient.Client]. The client's BaseURL should point at the server
// root (e.g. "http://sites.internal:8080").
func NewProjectClient(client *httpclient.Client, logger *slog.Logger) *ProjectClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProjectClient{
		req:    NewRequester(client, logger),
		logger: logger,
	}
}

// CreateProject sends POST /api/v1/projects and returns the project path as
// reported by the server.
func (c *ProjectClient) CreateProject(ctx context.Context, name string) (string, error) {
	var resp project.CreatedDTO
	if err := c.req.Do(ctx, http.MethodPost, projectsPath, http.StatusCreated,
		project.NameRequestDTO{Name: name}, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

// RenameProject sends PATCH /api/v1/projects/{oldName}.
func (c *ProjectClient) RenameProject(ctx context.Context, oldName, newName string) (bool, error) {
	var resp project.RenamedDTO
	if err := c.req.Do(ctx, http.MethodPatch, projectPath(oldName), http.StatusOK,
		project.NameRequestDTO{Name: newName}, &resp); err != nil {
		return false, err
	}
	return resp.Renamed, nil
}

// ValidateName applies the naming rules locally. They are pure and shared
// with the server, so no round trip is needed.
func (c *ProjectClient) ValidateName(name string) domainproject.NameValidation {
	return domainproject.ValidateName(name)
}

// ListProjects fetches GET /api/v1/projects.
func (c *ProjectClient) ListProjects(ctx context.Context) ([]domainproject.Project, error) {
	var resp project.ProjectListDTO
	if err := c.req.Do(ctx, http.MethodGet, projectsPath, http.StatusOK, nil, &resp); err != nil {
		return nil, err
	}
	return project.ToDomainProjectList(resp), nil
}

// GetProject fetches GET /api/v1/projects/{name}. Returns
// [domain.ErrNotFound] if the server returns 404.
func (c *ProjectClient) GetProject(ctx context.Context, name string) (*domainproject.Project, error) {
	var resp project.ProjectDTO
	if err := c.req.Do(ctx, http.MethodGet, projectPath(name), http.StatusOK, nil, &resp); err != nil {
		return nil, err
	}
	p := project.ToDomainProject(resp)
	return &p, nil
}

func projectPath(name string) string {
	return projectsPath + "/" + url.PathEscape(name)
}
