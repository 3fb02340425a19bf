// Package localfs implements ports.FileSystem on top of the os package.
package localfs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// Compile-time interface check.
var _ ports.FileSystem = (*FS)(nil)

// FS is the production ports.FileSystem. The zero value is ready to use.
type FS struct{}

// New returns an os-backed filesystem.
func New() *FS {
	return &FS{}
}

// Exists reports whether path exists.
func (FS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadFile reads the whole file at path.
func (FS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path and syncs it before closing.
func (FS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// MkdirAll creates path and any missing parents.
func (FS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// ReadDir returns the entries of path sorted by name.
func (FS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Rename moves oldpath to newpath.
func (FS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove deletes a file or empty directory.
func (FS) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll deletes path recursively.
func (FS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Stat returns file info for path, following symlinks.
func (FS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// CopyFile streams src into a newly created dst with the same permission
// bits. dst must not exist. A partially written dst is removed on failure.
func (FS) CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
