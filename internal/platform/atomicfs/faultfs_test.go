package atomicfs_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/localfs"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

var errInjected = errors.New("injected failure")

// faultFS wraps the real filesystem and fails selected calls.
type faultFS struct {
	ports.FileSystem

	failRename func(oldPath, newPath string) bool
	failWrite  func(path string) bool
	failCopy   func(src, dst string) bool
}

func newFaultFS() *faultFS {
	return &faultFS{FileSystem: localfs.New()}
}

func (f *faultFS) Rename(oldPath, newPath string) error {
	if f.failRename != nil && f.failRename(oldPath, newPath) {
		return errInjected
	}
	return f.FileSystem.Rename(oldPath, newPath)
}

func (f *faultFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	if f.failWrite != nil && f.failWrite(path) {
		return errInjected
	}
	return f.FileSystem.WriteFile(path, data, perm)
}

func (f *faultFS) CopyFile(src, dst string) error {
	if f.failCopy != nil && f.failCopy(src, dst) {
		return errInjected
	}
	return f.FileSystem.CopyFile(src, dst)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	return string(b)
}

// dirNames returns the sorted entry names of dir.
func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func assertNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("%s exists (err=%v), want absent", path, err)
	}
}
