package cli

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/clients/acl"
	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/domain/project"
	"github.com/jsamuelsen11/sitesmith/mocks"
)

func TestCreate(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().CreateProject(mock.Anything, "demo").Return("/srv/sites/demo", nil)

	stdout, stderr, code := runCLI(t, svc, "create", "demo")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "created demo at /srv/sites/demo\n", stdout)
	assert.Empty(t, stderr)
}

func TestCreate_JSON(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().CreateProject(mock.Anything, "demo").Return("/srv/sites/demo", nil)

	stdout, _, code := runCLI(t, svc, "--format", "json", "create", "demo")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "demo", resp.Data.Name)
	assert.Equal(t, "/srv/sites/demo", resp.Data.Path)
}

func TestCreate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{
			name:     "conflict",
			err:      fmt.Errorf("%w: project \"demo\" already exists", domain.ErrConflict),
			wantCode: ExitFailure,
			wantOut:  "already exists",
		},
		{
			name:     "invalid name",
			err:      domain.NewValidationError("name", "name is required"),
			wantCode: ExitUsage,
			wantOut:  "name is required",
		},
		{
			name:     "rolled back",
			err:      domain.NewOperationError(domain.KindValidationFailed, "write", "/srv/sites/demo/site.yaml", nil),
			wantCode: ExitFailure,
			wantOut:  "validation_failed",
		},
		{
			name:     "commit failed",
			err:      domain.NewOperationError(domain.KindCommitFailed, "copy_directory", "/srv/sites/demo", nil),
			wantCode: ExitAttention,
			wantOut:  "may be inconsistent",
		},
		{
			name:     "no response from server",
			err:      fmt.Errorf("POST /api/v1/projects: %w: EOF", acl.ErrOutcomeUnknown),
			wantCode: ExitAttention,
			wantOut:  "sitectl list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewMockProjectService(t)
			svc.EXPECT().CreateProject(mock.Anything, "demo").Return("", tt.err)

			stdout, stderr, code := runCLI(t, svc, "create", "demo")

			assert.Equal(t, tt.wantCode, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.wantOut)
		})
	}
}

func TestCreate_JSONError(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().CreateProject(mock.Anything, "a/b").
		Return("", domain.NewValidationError("name", "name must not contain path separators"))

	_, stderr, code := runCLI(t, svc, "--format", "json", "create", "a/b")
	require.Equal(t, ExitUsage, code)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(stderr), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_argument", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "name")
}

func TestRename(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().RenameProject(mock.Anything, "demo", "demo2").Return(true, nil)

	stdout, _, code := runCLI(t, svc, "rename", "demo", "demo2")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "renamed demo to demo2\n", stdout)
}

func TestRename_NotFound(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().RenameProject(mock.Anything, "ghost", "demo").
		Return(false, fmt.Errorf("%w: project \"ghost\"", domain.ErrNotFound))

	_, stderr, code := runCLI(t, svc, "--format", "json", "rename", "ghost", "demo")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, `"code":"not_found"`)
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewMockProjectService(t)
		svc.EXPECT().ValidateName("demo").Return(project.NameValidation{Valid: true})

		stdout, _, code := runCLI(t, svc, "validate-name", "demo")

		assert.Equal(t, ExitSuccess, code)
		assert.Equal(t, "valid\n", stdout)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		svc := mocks.NewMockProjectService(t)
		svc.EXPECT().ValidateName("CON").
			Return(project.NameValidation{Error: `name "CON" is reserved by the operating system`})

		stdout, _, code := runCLI(t, svc, "validate-name", "CON")

		assert.Equal(t, ExitUsage, code)
		assert.Contains(t, stdout, "invalid: name \"CON\" is reserved")
	})
}

func TestList(t *testing.T) {
	t.Parallel()

	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().ListProjects(mock.Anything).Return([]project.Project{
		{Name: "alpha", Path: "/srv/sites/alpha", ManifestName: "alpha", UpdatedAt: updated},
		{Name: "beta", Path: "/srv/sites/beta"},
	}, nil)

	stdout, _, code := runCLI(t, svc, "list")

	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "alpha")
	assert.Contains(t, stdout, "/srv/sites/beta")
}

func TestList_Empty(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().ListProjects(mock.Anything).Return([]project.Project{}, nil)

	stdout, _, code := runCLI(t, svc, "--format", "json", "list")

	require.Equal(t, ExitSuccess, code)
	assert.JSONEq(t, `{"status":"ok","data":{"projects":[],"count":0}}`, stdout)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	svc := mocks.NewMockProjectService(t)
	svc.EXPECT().GetProject(mock.Anything, "ghost").
		Return(nil, fmt.Errorf("%w: project \"ghost\"", domain.ErrNotFound))

	_, stderr, code := runCLI(t, svc, "get", "ghost")

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "not found")
}
