package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// Compile-time interface check.
var _ ports.HealthChecker = (*DirChecker)(nil)

// DirChecker reports whether a directory the service depends on is usable.
type DirChecker struct {
	name      string
	path      string
	fs        ports.FileSystem
	creatable bool
}

// NewDirChecker returns a checker that fails unless path exists and is a
// directory. Used for the site template.
func NewDirChecker(name, path string, fsys ports.FileSystem) *DirChecker {
	return &DirChecker{name: name, path: path, fs: fsys}
}

// NewCreatableDirChecker is like NewDirChecker but also passes when path
// is missing and its parent directory exists. The workspace root is created
// on the first project, so a fresh deployment is still ready.
func NewCreatableDirChecker(name, path string, fsys ports.FileSystem) *DirChecker {
	return &DirChecker{name: name, path: path, fs: fsys, creatable: true}
}

// Name returns the registry key.
func (c *DirChecker) Name() string {
	return c.name
}

// HealthCheck stats the directory. It makes no writes.
func (c *DirChecker) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.checkDir(c.path)
	if c.creatable && errors.Is(err, fs.ErrNotExist) {
		return c.checkDir(filepath.Dir(c.path))
	}
	return err
}

func (c *DirChecker) checkDir(path string) error {
	info, err := c.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %s is not a directory", c.name, path)
	}
	return nil
}
