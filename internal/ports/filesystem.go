package ports

import "io/fs"

// FileSystem is the set of filesystem calls the mutation engine is built
// from. Paths use OS semantics (path/filepath), not io/fs slash paths.
//
// Every method is fallible; the primitives classify returned errors as
// domain.KindIO. Implementations must be safe for concurrent use.
type FileSystem interface {
	// Exists reports whether path exists. Returns (false, nil) if not found
	// and (false, err) on any other error.
	Exists(path string) (bool, error)

	// ReadFile reads the whole file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile creates or truncates path and writes data to it, syncing
	// before close. It is NOT atomic; use the atomic primitives for that.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string, perm fs.FileMode) error

	// ReadDir returns the entries of the directory at path, sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)

	// Rename moves oldpath to newpath. Atomic within one volume.
	Rename(oldpath, newpath string) error

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// RemoveAll deletes path and everything below it. No error if path
	// does not exist.
	RemoveAll(path string) error

	// CopyFile copies the contents and permission bits of the regular file
	// src to dst, following symlinks.
	CopyFile(src, dst string) error

	// Stat returns file info for path, following symlinks.
	Stat(path string) (fs.FileInfo, error)
}
