package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/localfs"
	"github.com/jsamuelsen11/sitesmith/internal/app/txn"
	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
	"github.com/jsamuelsen11/sitesmith/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newWorkspace lays out a template and an empty root under a temp dir.
func newWorkspace(t *testing.T) config.WorkspaceConfig {
	t.Helper()
	base := t.TempDir()
	tmpl := filepath.Join(base, "template")

	files := map[string]string{
		"site.yaml":        "name: \"{{PROJECT_NAME}}\"\ntitle: \"{{PROJECT_NAME}}\"\n",
		"package.json":     "{\n  \"name\": \"site-template\",\n  \"version\": \"0.1.0\"\n}\n",
		"README.md":        "# {{PROJECT_NAME}}\n\nSee demo-docs for help.\n",
		"content/index.md": "Welcome.\n",
		"debug.log":        "excluded\n",
	}
	for rel, content := range files {
		writeTestFile(t, filepath.Join(tmpl, rel), content)
	}

	return config.WorkspaceConfig{
		Root:               filepath.Join(base, "root"),
		TemplateDir:        tmpl,
		Exclude:            []string{"*.log"},
		ConfigFile:         "site.yaml",
		ManifestFile:       "package.json",
		Placeholder:        "{{PROJECT_NAME}}",
		ReferenceFiles:     []string{"README.md"},
		MaxConcurrentReads: 4,
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(b)
}

// snapshot maps every path under dir (relative) to its content; directories
// map to "/".
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		if d.IsDir() {
			out[rel] = "/"
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[rel] = string(b)
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("WalkDir(%s): %v", dir, err)
	}
	return out
}

func assertSameTree(t *testing.T, got, want map[string]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("tree has %d entries, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("entry %q = %q, want %q", k, got[k], v)
		}
	}
}

func assertAbsent(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("%s should not exist (err = %v)", path, err)
	}
}

// --- NewProjectService ---

func TestNewProjectService_NilLogger(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(localfs.New(), nil, newWorkspace(t), nil)
	if svc.logger == nil {
		t.Fatal("NewProjectService(nil logger) should create a no-op logger, got nil")
	}
}

func TestNewProjectService_ResolvesRelativeRoot(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(localfs.New(), nil, config.WorkspaceConfig{Root: "workspace", TemplateDir: "tmpl"}, nil)
	if !filepath.IsAbs(svc.Root()) {
		t.Errorf("Root() = %q, want absolute path", svc.Root())
	}
	if svc.ws.MaxConcurrentReads != 1 {
		t.Errorf("MaxConcurrentReads = %d, want clamped to 1", svc.ws.MaxConcurrentReads)
	}
}

// --- CreateProject ---

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()

	t.Run("generates project with name substituted", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger())

		path, err := svc.CreateProject(context.Background(), "demo")
		if err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}
		if want := filepath.Join(ws.Root, "demo"); path != want {
			t.Errorf("path = %q, want %q", path, want)
		}

		got := snapshot(t, path)
		want := map[string]string{
			".":                "/",
			"content":          "/",
			"content/index.md": "Welcome.\n",
			"site.yaml":        "name: \"demo\"\ntitle: \"demo\"\n",
			"package.json":     "{\n  \"name\": \"demo\",\n  \"version\": \"0.1.0\"\n}\n",
			"README.md":        "# demo\n\nSee demo-docs for help.\n",
		}
		assertSameTree(t, got, want)

		entries, err := os.ReadDir(ws.Root)
		if err != nil {
			t.Fatalf("ReadDir(root): %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("workspace root has %d entries, want only the project", len(entries))
		}
	})

	t.Run("rejected config leaves no trace", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		reject := func(path string, _ []byte) bool {
			return filepath.Base(path) != "site.yaml"
		}
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger(), WithContentCheck(reject))

		_, err := svc.CreateProject(context.Background(), "demo")
		if err == nil {
			t.Fatal("CreateProject() error = nil, want validation failure")
		}
		if !errors.Is(err, domain.ErrValidationFailed) {
			t.Errorf("error = %v, want ErrValidationFailed", err)
		}
		if domain.KindOf(err) != domain.KindValidationFailed {
			t.Errorf("KindOf() = %v, want %v", domain.KindOf(err), domain.KindValidationFailed)
		}

		assertAbsent(t, filepath.Join(ws.Root, "demo"))
		if got := snapshot(t, ws.Root); len(got) != 1 {
			t.Errorf("workspace root not empty after failure: %v", got)
		}
	})

	t.Run("rejected manifest rolls back earlier steps", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		reject := func(path string, _ []byte) bool {
			return filepath.Base(path) != "package.json"
		}
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger(), WithContentCheck(reject))

		if _, err := svc.CreateProject(context.Background(), "demo"); err == nil {
			t.Fatal("CreateProject() error = nil, want failure")
		}
		if got := snapshot(t, ws.Root); len(got) != 1 {
			t.Errorf("workspace root not empty after failure: %v", got)
		}
	})

	t.Run("existing project is a conflict with no mutation", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger())

		if _, err := svc.CreateProject(context.Background(), "demo"); err != nil {
			t.Fatalf("first CreateProject() error = %v", err)
		}
		before := snapshot(t, ws.Root)

		_, err := svc.CreateProject(context.Background(), "demo")
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("second CreateProject() error = %v, want ErrConflict", err)
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("error = %q, want it to mention already exists", err)
		}
		assertSameTree(t, snapshot(t, ws.Root), before)
	})

	t.Run("invalid name touches nothing", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger())

		for _, name := range []string{"", "../escape", "a/b", "CON", ".hidden"} {
			if _, err := svc.CreateProject(context.Background(), name); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("CreateProject(%q) error = %v, want ErrValidation", name, err)
			}
		}
		assertAbsent(t, ws.Root)
	})

	t.Run("missing template is unavailable", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		ws.TemplateDir = filepath.Join(t.TempDir(), "missing")
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger())

		_, err := svc.CreateProject(context.Background(), "demo")
		if !errors.Is(err, domain.ErrUnavailable) {
			t.Fatalf("CreateProject() error = %v, want ErrUnavailable", err)
		}
		assertAbsent(t, filepath.Join(ws.Root, "demo"))
	})

	t.Run("template without manifest fails the copy", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		if err := os.Remove(filepath.Join(ws.TemplateDir, "package.json")); err != nil {
			t.Fatal(err)
		}
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger())

		_, err := svc.CreateProject(context.Background(), "demo")
		if domain.KindOf(err) != domain.KindValidationFailed {
			t.Fatalf("CreateProject() error = %v, want validation failure", err)
		}
		if got := snapshot(t, ws.Root); len(got) != 1 {
			t.Errorf("workspace root not empty after failure: %v", got)
		}
	})

	t.Run("busy path is a conflict", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		locks := txn.NewPathLocker()
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger(), WithPathLocker(locks))

		unlock, err := locks.TryLock(ws.Root)
		if err != nil {
			t.Fatal(err)
		}
		defer unlock()

		if _, err := svc.CreateProject(context.Background(), "demo"); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("CreateProject() error = %v, want ErrConflict", err)
		}
		assertAbsent(t, ws.Root)
	})
}

func TestProjectService_CreateProject_Setup(t *testing.T) {
	t.Parallel()

	t.Run("runs setup in the new project", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		ws.Setup = config.SetupConfig{Command: "npm", Args: []string{"install"}, Artifacts: []string{"node_modules"}}
		runner := mocks.NewMockProcessRunner(t)
		dest := filepath.Join(ws.Root, "demo")

		runner.EXPECT().
			Run(mock.Anything, mock.MatchedBy(func(cmd ports.Command) bool {
				return cmd.Name == "npm" && cmd.Dir == dest && slices.Equal(cmd.Args, []string{"install"})
			})).
			RunAndReturn(func(_ context.Context, cmd ports.Command) (*ports.ProcessResult, error) {
				writeTestFile(t, filepath.Join(cmd.Dir, "node_modules", "dep", "index.js"), "x")
				return &ports.ProcessResult{ExitCode: 0}, nil
			})

		svc := NewProjectService(localfs.New(), runner, ws, discardLogger())
		if _, err := svc.CreateProject(context.Background(), "demo"); err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dest, "node_modules", "dep", "index.js")); err != nil {
			t.Errorf("setup artifact missing: %v", err)
		}
	})

	t.Run("failed setup removes the project", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		ws.Setup = config.SetupConfig{Command: "npm", Args: []string{"install"}, Artifacts: []string{"node_modules"}}
		runner := mocks.NewMockProcessRunner(t)

		runner.EXPECT().
			Run(mock.Anything, mock.Anything).
			RunAndReturn(func(_ context.Context, cmd ports.Command) (*ports.ProcessResult, error) {
				writeTestFile(t, filepath.Join(cmd.Dir, "node_modules", "partial"), "x")
				return &ports.ProcessResult{ExitCode: 1, Output: "npm ERR! network"}, nil
			})

		svc := NewProjectService(localfs.New(), runner, ws, discardLogger())
		_, err := svc.CreateProject(context.Background(), "demo")
		if err == nil {
			t.Fatal("CreateProject() error = nil, want setup failure")
		}
		if !strings.Contains(err.Error(), "npm ERR! network") {
			t.Errorf("error = %q, want command output", err)
		}
		if got := snapshot(t, ws.Root); len(got) != 1 {
			t.Errorf("workspace root not empty after failure: %v", got)
		}
	})

	t.Run("runner error is reported", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		ws.Setup = config.SetupConfig{Command: "npm"}
		runner := mocks.NewMockProcessRunner(t)
		errStart := errors.New("executable not found")

		runner.EXPECT().Run(mock.Anything, mock.Anything).Return(nil, errStart)

		svc := NewProjectService(localfs.New(), runner, ws, discardLogger())
		_, err := svc.CreateProject(context.Background(), "demo")
		if !errors.Is(err, errStart) {
			t.Fatalf("CreateProject() error = %v, want %v", err, errStart)
		}
		assertAbsent(t, filepath.Join(ws.Root, "demo"))
	})

	t.Run("setup without runner is unavailable", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		ws.Setup = config.SetupConfig{Command: "npm"}

		svc := NewProjectService(localfs.New(), nil, ws, discardLogger())
		if _, err := svc.CreateProject(context.Background(), "demo"); !errors.Is(err, domain.ErrUnavailable) {
			t.Fatalf("CreateProject() error = %v, want ErrUnavailable", err)
		}
		assertAbsent(t, filepath.Join(ws.Root, "demo"))
	})
}

// --- RenameProject ---

func TestProjectService_RenameProject(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T, opts ...Option) (*ProjectService, config.WorkspaceConfig) {
		t.Helper()
		ws := newWorkspace(t)
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger(), opts...)
		if _, err := svc.CreateProject(context.Background(), "demo"); err != nil {
			t.Fatalf("CreateProject() error = %v", err)
		}
		return svc, ws
	}

	t.Run("round trip restores the tree", func(t *testing.T) {
		t.Parallel()
		svc, ws := setup(t)
		oldPath := filepath.Join(ws.Root, "demo")
		newPath := filepath.Join(ws.Root, "demo2")
		before := snapshot(t, oldPath)

		ok, err := svc.RenameProject(context.Background(), "demo", "demo2")
		if err != nil || !ok {
			t.Fatalf("RenameProject(demo, demo2) = %v, %v", ok, err)
		}
		assertAbsent(t, oldPath)

		if got := readTestFile(t, filepath.Join(newPath, "site.yaml")); got != "name: \"demo2\"\ntitle: \"demo2\"\n" {
			t.Errorf("site.yaml = %q", got)
		}
		if got := readTestFile(t, filepath.Join(newPath, "README.md")); got != "# demo2\n\nSee demo-docs for help.\n" {
			t.Errorf("README.md = %q, want only the standalone name replaced", got)
		}
		name, err := manifestName([]byte(readTestFile(t, filepath.Join(newPath, "package.json"))))
		if err != nil || name != "demo2" {
			t.Errorf("manifest name = %q, %v; want demo2", name, err)
		}

		ok, err = svc.RenameProject(context.Background(), "demo2", "demo")
		if err != nil || !ok {
			t.Fatalf("RenameProject(demo2, demo) = %v, %v", ok, err)
		}
		assertAbsent(t, newPath)
		assertSameTree(t, snapshot(t, oldPath), before)
	})

	t.Run("missing project is not found", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		ok, err := svc.RenameProject(context.Background(), "ghost", "demo3")
		if ok || !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("RenameProject() = %v, %v; want false, ErrNotFound", ok, err)
		}
	})

	t.Run("taken target is a conflict", func(t *testing.T) {
		t.Parallel()
		svc, ws := setup(t)
		if _, err := svc.CreateProject(context.Background(), "other"); err != nil {
			t.Fatal(err)
		}
		before := snapshot(t, ws.Root)

		ok, err := svc.RenameProject(context.Background(), "demo", "other")
		if ok || !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("RenameProject() = %v, %v; want false, ErrConflict", ok, err)
		}
		assertSameTree(t, snapshot(t, ws.Root), before)
	})

	t.Run("same name is a validation error", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		if _, err := svc.RenameProject(context.Background(), "demo", "demo"); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("RenameProject() error = %v, want ErrValidation", err)
		}
	})

	t.Run("invalid new name is a validation error", func(t *testing.T) {
		t.Parallel()
		svc, _ := setup(t)

		var ve *domain.ValidationError
		_, err := svc.RenameProject(context.Background(), "demo", "bad|name")
		if !errors.As(err, &ve) {
			t.Fatalf("RenameProject() error = %v, want *ValidationError", err)
		}
		if _, ok := ve.Fields["new_name"]; !ok {
			t.Errorf("Fields = %v, want new_name", ve.Fields)
		}
	})

	t.Run("rejected reference rolls back the rename", func(t *testing.T) {
		t.Parallel()
		var armed bool
		check := func(path string, _ []byte) bool {
			return !armed || filepath.Base(path) != "README.md"
		}
		svc, ws := setup(t, WithContentCheck(check))
		oldPath := filepath.Join(ws.Root, "demo")
		before := snapshot(t, oldPath)
		armed = true

		ok, err := svc.RenameProject(context.Background(), "demo", "demo2")
		if ok || err == nil {
			t.Fatalf("RenameProject() = %v, %v; want failure", ok, err)
		}
		if domain.KindOf(err) != domain.KindValidationFailed {
			t.Errorf("KindOf() = %v, want %v", domain.KindOf(err), domain.KindValidationFailed)
		}
		assertAbsent(t, filepath.Join(ws.Root, "demo2"))
		assertSameTree(t, snapshot(t, oldPath), before)
	})
}

// --- ValidateName ---

func TestProjectService_ValidateName(t *testing.T) {
	t.Parallel()
	svc := NewProjectService(localfs.New(), nil, newWorkspace(t), discardLogger())

	if got := svc.ValidateName("my-site"); !got.Valid {
		t.Errorf("ValidateName(my-site) = %+v, want valid", got)
	}
	if got := svc.ValidateName("../x"); got.Valid || got.Error == "" {
		t.Errorf("ValidateName(../x) = %+v, want invalid with message", got)
	}
}

// --- ListProjects / GetProject ---

func TestProjectService_ListProjects(t *testing.T) {
	t.Parallel()

	t.Run("missing root is empty", func(t *testing.T) {
		t.Parallel()
		svc := NewProjectService(localfs.New(), nil, newWorkspace(t), discardLogger())

		got, err := svc.ListProjects(context.Background())
		if err != nil {
			t.Fatalf("ListProjects() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("ListProjects() = %v, want empty non-nil slice", got)
		}
	})

	t.Run("lists project directories sorted", func(t *testing.T) {
		t.Parallel()
		ws := newWorkspace(t)
		svc := NewProjectService(localfs.New(), nil, ws, discardLogger())
		for _, name := range []string{"zeta", "alpha"} {
			if _, err := svc.CreateProject(context.Background(), name); err != nil {
				t.Fatal(err)
			}
		}
		writeTestFile(t, filepath.Join(ws.Root, "broken", "package.json"), "not json")
		writeTestFile(t, filepath.Join(ws.Root, ".cache", "x"), "x")
		writeTestFile(t, filepath.Join(ws.Root, "notes.txt"), "x")

		got, err := svc.ListProjects(context.Background())
		if err != nil {
			t.Fatalf("ListProjects() error = %v", err)
		}

		var names, manifests []string
		for _, p := range got {
			names = append(names, p.Name)
			manifests = append(manifests, p.ManifestName)
		}
		if want := []string{"alpha", "broken", "zeta"}; !slices.Equal(names, want) {
			t.Errorf("names = %v, want %v", names, want)
		}
		if want := []string{"alpha", "", "zeta"}; !slices.Equal(manifests, want) {
			t.Errorf("manifest names = %v, want %v", manifests, want)
		}
		if got[0].Path != filepath.Join(ws.Root, "alpha") {
			t.Errorf("Path = %q", got[0].Path)
		}
	})
}

func TestProjectService_GetProject(t *testing.T) {
	t.Parallel()
	ws := newWorkspace(t)
	svc := NewProjectService(localfs.New(), nil, ws, discardLogger())
	if _, err := svc.CreateProject(context.Background(), "demo"); err != nil {
		t.Fatal(err)
	}

	p, err := svc.GetProject(context.Background(), "demo")
	if err != nil {
		t.Fatalf("GetProject() error = %v", err)
	}
	if p.Name != "demo" || p.ManifestName != "demo" || p.UpdatedAt.IsZero() {
		t.Errorf("GetProject() = %+v", p)
	}

	if _, err := svc.GetProject(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetProject(ghost) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetProject(context.Background(), "../etc"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("GetProject(../etc) error = %v, want ErrValidation", err)
	}
}
