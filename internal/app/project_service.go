// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jsamuelsen11/sitesmith/internal/app/fanout"
	"github.com/jsamuelsen11/sitesmith/internal/app/txn"
	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/domain/project"
	"github.com/jsamuelsen11/sitesmith/internal/platform/atomicfs"
	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
	"github.com/jsamuelsen11/sitesmith/internal/platform/telemetry"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService by composing atomic
// filesystem primitives into transactions. It validates preconditions,
// builds the ordered steps, executes them, and performs the cleanup the
// transaction itself is not responsible for.
type ProjectService struct {
	fs      ports.FileSystem
	runner  ports.ProcessRunner
	ws      config.WorkspaceConfig
	locks   *txn.PathLocker
	metrics *telemetry.Metrics
	check   ContentCheck
	logger  *slog.Logger
}

// ContentCheck is an extra predicate applied to every file the service
// rewrites, after its built-in validation. path is the final location.
type ContentCheck func(path string, content []byte) bool

// Option configures a ProjectService.
type Option func(*ProjectService)

// WithMetrics records transaction metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *ProjectService) {
		s.metrics = m
	}
}

// WithPathLocker shares a lock table between services. By default each
// service has its own.
func WithPathLocker(l *txn.PathLocker) Option {
	return func(s *ProjectService) {
		s.locks = l
	}
}

// WithContentCheck adds a policy check to every content rewrite.
func WithContentCheck(c ContentCheck) Option {
	return func(s *ProjectService) {
		s.check = c
	}
}

// NewProjectService creates a ProjectService. runner may be nil when no
// setup command is configured. A relative workspace root or template
// directory is resolved against the working directory.
func NewProjectService(fsys ports.FileSystem, runner ports.ProcessRunner, ws config.WorkspaceConfig, logger *slog.Logger, opts ...Option) *ProjectService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if abs, err := filepath.Abs(ws.Root); err == nil {
		ws.Root = abs
	}
	if abs, err := filepath.Abs(ws.TemplateDir); err == nil {
		ws.TemplateDir = abs
	}
	if ws.MaxConcurrentReads < 1 {
		ws.MaxConcurrentReads = 1
	}

	s := &ProjectService{
		fs:     fsys,
		runner: runner,
		ws:     ws,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locks == nil {
		s.locks = txn.NewPathLocker()
	}
	return s
}

// Root returns the absolute workspace root.
func (s *ProjectService) Root() string {
	return s.ws.Root
}

// TemplateDir returns the absolute site template directory.
func (s *ProjectService) TemplateDir() string {
	return s.ws.TemplateDir
}

// ValidateName checks a candidate project name without touching disk.
func (s *ProjectService) ValidateName(name string) project.NameValidation {
	return project.ValidateName(name)
}

// CreateProject creates a project from the site template and returns its
// path. On failure no trace of the project is left in the workspace.
func (s *ProjectService) CreateProject(ctx context.Context, name string) (string, error) {
	const op = "CreateProject"

	if err := project.CheckName("name", name); err != nil {
		return "", err
	}
	name = project.NormalizeName(name)
	dest := s.projectPath(name)

	logger := s.loggerFor(ctx).With(slog.String("operation", op), slog.String("name", name), slog.String("path", dest))
	logger.InfoContext(ctx, "creating project")

	unlock, err := s.locks.TryLock(dest)
	if err != nil {
		return "", err
	}
	defer unlock()

	// Preconditions: fail fast with no side effects.
	taken, err := s.fs.Exists(dest)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", dest, err)
	}
	if taken {
		return "", fmt.Errorf("%w: project %q already exists", domain.ErrConflict, name)
	}
	if err := s.requireTemplate(); err != nil {
		logger.ErrorContext(ctx, "template unavailable", slog.Any("error", err))
		return "", err
	}
	if err := s.fs.MkdirAll(s.ws.Root, 0o755); err != nil {
		return "", fmt.Errorf("creating workspace root %s: %w", s.ws.Root, err)
	}

	tx, err := s.buildCreate(name, dest)
	if err != nil {
		return "", err
	}

	ctx = logging.WithLogger(ctx, logger)
	res := tx.Execute(ctx)
	if !res.Success {
		s.logFailure(ctx, logger, res)
		s.purge(ctx, logger, dest, res.TemporaryPaths)
		return "", fmt.Errorf("creating project %q at %s: %w", name, dest, res.Err)
	}

	logger.InfoContext(ctx, "project created", slog.String("txn_id", res.ID))
	return dest, nil
}

func (s *ProjectService) buildCreate(name, dest string) (*txn.Transaction, error) {
	tx := txn.New("create_project", s.txnOptions()...)
	configPath := filepath.Join(dest, s.ws.ConfigFile)

	steps := []domain.Action{
		&atomicfs.CopyDirStep{
			FS:   s.fs,
			Src:  s.ws.TemplateDir,
			Dest: dest,
			Options: atomicfs.CopyOptions{
				Exclude:  s.ws.Exclude,
				Validate: atomicfs.RequireEntries(s.ws.ConfigFile, s.ws.ManifestFile),
			},
		},
		&atomicfs.WriteStep{
			FS:        s.fs,
			Path:      configPath,
			Transform: s.substitutePlaceholder(name),
			Validate: s.withCheck(configPath, atomicfs.All(
				atomicfs.ContainsAll(name),
				atomicfs.ContainsNone(s.ws.Placeholder),
			)),
			Label: "customize " + s.ws.ConfigFile,
		},
	}

	// Reference files are optional; only those shipped with the template
	// get the placeholder substituted.
	for _, ref := range s.referenceFiles() {
		if ref == s.ws.ConfigFile {
			continue
		}
		found, err := s.fs.Exists(filepath.Join(s.ws.TemplateDir, ref))
		if err != nil {
			return nil, fmt.Errorf("checking template file %s: %w", ref, err)
		}
		if !found {
			continue
		}
		refPath := filepath.Join(dest, ref)
		steps = append(steps, &atomicfs.WriteStep{
			FS:        s.fs,
			Path:      refPath,
			Transform: s.substitutePlaceholder(name),
			Validate:  s.withCheck(refPath, atomicfs.ContainsNone(s.ws.Placeholder)),
			Label:     "customize " + ref,
		})
	}

	manifestPath := filepath.Join(dest, s.ws.ManifestFile)
	steps = append(steps, &atomicfs.WriteStep{
		FS:        s.fs,
		Path:      manifestPath,
		Transform: func(current []byte) ([]byte, error) { return setManifestName(current, name) },
		Validate:  s.withCheck(manifestPath, manifestNamed(name)),
		Label:     "set " + s.ws.ManifestFile + " name",
	})

	if s.ws.Setup.Enabled() {
		if s.runner == nil {
			return nil, fmt.Errorf("%w: setup command %q configured without a process runner",
				domain.ErrUnavailable, s.ws.Setup.Command)
		}
		steps = append(steps, &setupStep{fs: s.fs, runner: s.runner, dir: dest, cfg: s.ws.Setup})
	}

	for _, step := range steps {
		if err := tx.AddAction(step); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

// purge is the safety net after a failed create: whatever rollback left
// behind at dest, and any staging leftovers, is force-removed.
func (s *ProjectService) purge(ctx context.Context, logger *slog.Logger, dest string, leftovers []string) {
	for _, p := range append([]string{dest}, leftovers...) {
		found, err := s.fs.Exists(p)
		if err != nil {
			logger.ErrorContext(ctx, "safety-net cleanup could not inspect path",
				slog.String("path", p),
				logging.RequiresAttention(),
				slog.Any("error", err),
			)
			continue
		}
		if !found {
			logger.DebugContext(ctx, "safety-net cleanup not needed", slog.String("path", p))
			continue
		}
		if err := s.fs.RemoveAll(p); err != nil {
			logger.ErrorContext(ctx, "safety-net cleanup failed",
				slog.String("path", p),
				logging.RequiresAttention(),
				slog.Any("error", err),
			)
			continue
		}
		logger.WarnContext(ctx, "safety-net cleanup removed leftover path", slog.String("path", p))
	}
}

// RenameProject renames a project directory and rewrites its manifest and
// cross-references. On failure the project keeps its original name.
func (s *ProjectService) RenameProject(ctx context.Context, oldName, newName string) (bool, error) {
	const op = "RenameProject"

	if err := project.CheckName("old_name", oldName); err != nil {
		return false, err
	}
	if err := project.CheckName("new_name", newName); err != nil {
		return false, err
	}
	oldName, newName = project.NormalizeName(oldName), project.NormalizeName(newName)
	if oldName == newName {
		return false, domain.NewValidationError("new_name", "must differ from the current name")
	}

	oldPath, newPath := s.projectPath(oldName), s.projectPath(newName)
	logger := s.loggerFor(ctx).With(
		slog.String("operation", op),
		slog.String("old_name", oldName),
		slog.String("new_name", newName),
	)
	logger.InfoContext(ctx, "renaming project")

	unlock, err := s.locks.TryLock(oldPath, newPath)
	if err != nil {
		return false, err
	}
	defer unlock()

	info, err := s.fs.Stat(oldPath)
	switch {
	case isNotExist(err):
		return false, fmt.Errorf("%w: project %q", domain.ErrNotFound, oldName)
	case err != nil:
		return false, fmt.Errorf("checking %s: %w", oldPath, err)
	case !info.IsDir():
		return false, fmt.Errorf("%w: project %q", domain.ErrNotFound, oldName)
	}

	taken, err := s.fs.Exists(newPath)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", newPath, err)
	}
	if taken {
		return false, fmt.Errorf("%w: project %q already exists", domain.ErrConflict, newName)
	}

	tx, err := s.buildRename(oldName, newName, oldPath, newPath)
	if err != nil {
		return false, err
	}

	ctx = logging.WithLogger(ctx, logger)
	res := tx.Execute(ctx)
	if !res.Success {
		s.logFailure(ctx, logger, res)
		return false, fmt.Errorf("renaming project %q to %q: %w", oldName, newName, res.Err)
	}

	logger.InfoContext(ctx, "project renamed", slog.String("txn_id", res.ID))
	return true, nil
}

func (s *ProjectService) buildRename(oldName, newName, oldPath, newPath string) (*txn.Transaction, error) {
	tx := txn.New("rename_project", s.txnOptions()...)

	if err := tx.AddAction(&atomicfs.RenameStep{
		FS:       s.fs,
		From:     oldPath,
		To:       newPath,
		Validate: atomicfs.RequireEntries(s.ws.ManifestFile),
	}); err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(newPath, s.ws.ManifestFile)
	if err := tx.AddAction(&atomicfs.WriteStep{
		FS:        s.fs,
		Path:      manifestPath,
		Transform: func(current []byte) ([]byte, error) { return setManifestName(current, newName) },
		Validate:  s.withCheck(manifestPath, manifestNamed(newName)),
		Label:     "set " + s.ws.ManifestFile + " name",
	}); err != nil {
		return nil, err
	}

	// Cross-references touch disjoint files and run as one concurrent step.
	var refs []domain.Action
	for _, ref := range s.referenceFiles() {
		content, err := s.fs.ReadFile(filepath.Join(oldPath, ref))
		if isNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", ref, err)
		}
		if _, n := replaceName(string(content), oldName, newName); n == 0 {
			continue
		}

		refPath := filepath.Join(newPath, ref)
		refs = append(refs, &atomicfs.WriteStep{
			FS:   s.fs,
			Path: refPath,
			Transform: func(current []byte) ([]byte, error) {
				out, _ := replaceName(string(current), oldName, newName)
				return []byte(out), nil
			},
			Validate: s.withCheck(refPath, atomicfs.ContainsAll(newName)),
			Label:    "update references in " + ref,
		})
	}
	if len(refs) > 0 {
		if err := tx.AddGroup(refs...); err != nil {
			return nil, err
		}
	}

	return tx, nil
}

// ListProjects returns every project directory in the workspace, sorted by
// name. A missing workspace root yields an empty list.
func (s *ProjectService) ListProjects(ctx context.Context) ([]project.Project, error) {
	logger := s.loggerFor(ctx)
	logger.InfoContext(ctx, "listing projects")

	entries, err := s.fs.ReadDir(s.ws.Root)
	if isNotExist(err) {
		return []project.Project{}, nil
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to list projects",
			slog.String("operation", "ListProjects"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("reading workspace %s: %w", s.ws.Root, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || atomicfs.IsStagingName(name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	results := fanout.Run(ctx, s.ws.MaxConcurrentReads, names, func(ctx context.Context, name string) (project.Project, error) {
		return s.load(ctx, name)
	})

	projects := make([]project.Project, 0, len(results))
	for i, r := range results {
		if r.Err != nil {
			logger.WarnContext(ctx, "skipping unreadable project",
				slog.String("operation", "ListProjects"),
				slog.String("name", names[i]),
				slog.Any("error", r.Err),
			)
			continue
		}
		projects = append(projects, r.Value)
	}
	return projects, nil
}

// GetProject returns a single project by name.
func (s *ProjectService) GetProject(ctx context.Context, name string) (*project.Project, error) {
	if err := project.CheckName("name", name); err != nil {
		return nil, err
	}
	name = project.NormalizeName(name)

	p, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectService) load(ctx context.Context, name string) (project.Project, error) {
	path := s.projectPath(name)

	info, err := s.fs.Stat(path)
	switch {
	case isNotExist(err):
		return project.Project{}, fmt.Errorf("%w: project %q", domain.ErrNotFound, name)
	case err != nil:
		return project.Project{}, fmt.Errorf("reading project %s: %w", path, err)
	case !info.IsDir():
		return project.Project{}, fmt.Errorf("%w: project %q", domain.ErrNotFound, name)
	}

	p := project.Project{Name: name, Path: path, UpdatedAt: info.ModTime()}

	data, err := s.fs.ReadFile(filepath.Join(path, s.ws.ManifestFile))
	switch {
	case isNotExist(err):
		// A project without a manifest is still listed.
	case err != nil:
		return project.Project{}, fmt.Errorf("reading manifest of %q: %w", name, err)
	default:
		if p.ManifestName, err = manifestName(data); err != nil {
			s.loggerFor(ctx).WarnContext(ctx, "unreadable manifest",
				slog.String("name", name),
				slog.Any("error", err),
			)
		}
	}
	return p, nil
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (s *ProjectService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func (s *ProjectService) projectPath(name string) string {
	return filepath.Join(s.ws.Root, name)
}

func (s *ProjectService) requireTemplate() error {
	info, err := s.fs.Stat(s.ws.TemplateDir)
	if err != nil {
		return fmt.Errorf("%w: template %s: %w", domain.ErrUnavailable, s.ws.TemplateDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: template %s is not a directory", domain.ErrUnavailable, s.ws.TemplateDir)
	}
	return nil
}

// referenceFiles returns the config file followed by the configured
// reference files, without duplicates.
func (s *ProjectService) referenceFiles() []string {
	out := []string{s.ws.ConfigFile}
	for _, ref := range s.ws.ReferenceFiles {
		if !slices.Contains(out, ref) {
			out = append(out, ref)
		}
	}
	return out
}

func (s *ProjectService) substitutePlaceholder(name string) atomicfs.Transform {
	return func(current []byte) ([]byte, error) {
		return []byte(strings.ReplaceAll(string(current), s.ws.Placeholder, name)), nil
	}
}

func (s *ProjectService) withCheck(path string, v atomicfs.Validator[[]byte]) atomicfs.Validator[[]byte] {
	if s.check == nil {
		return v
	}
	return atomicfs.All(v, func(b []byte) bool { return s.check(path, b) })
}

func (s *ProjectService) txnOptions() []txn.Option {
	if s.metrics == nil {
		return nil
	}
	return []txn.Option{txn.WithMetrics(s.metrics)}
}

func (s *ProjectService) logFailure(ctx context.Context, logger *slog.Logger, res txn.Result) {
	attrs := []any{
		slog.String("txn_id", res.ID),
		slog.String("state", res.State.String()),
		slog.String("failed_step", res.FailedStep),
		slog.Bool("rollback_performed", res.RollbackPerformed),
		slog.Any("error", res.Err),
	}
	if res.State == txn.StatePartiallyRolledBack || domain.KindOf(res.Err) == domain.KindCommitFailed {
		attrs = append(attrs,
			logging.RequiresAttention(),
			slog.Any("rollback_errors", res.RollbackErrors),
		)
	}
	logger.ErrorContext(ctx, "transaction failed", attrs...)
}
