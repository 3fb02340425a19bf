package atomicfs

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// Validator is a pure predicate over staged input: file content for writes,
// a directory listing for copies and renames. It must have no side effects
// and return the same answer for the same input, since staging may be
// retried.
type Validator[T any] func(T) bool

// Listing is the sorted top-level entry names of a staged directory.
type Listing []string

// Has reports whether every name is present in the listing.
func (l Listing) Has(names ...string) bool {
	for _, n := range names {
		if !slices.Contains(l, n) {
			return false
		}
	}
	return true
}

// List returns the top-level listing of path. A regular file lists as its
// own base name.
func List(fsys ports.FileSystem, path string) (Listing, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return Listing{filepath.Base(path)}, nil
	}

	entries, err := fsys.ReadDir(path)
	if err != nil {
		return nil, err
	}
	return names(entries), nil
}

func names(entries []fs.DirEntry) Listing {
	out := make(Listing, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	slices.Sort(out)
	return out
}

// All combines validators; the result passes only if every one passes.
func All[T any](vs ...Validator[T]) Validator[T] {
	return func(in T) bool {
		for _, v := range vs {
			if v != nil && !v(in) {
				return false
			}
		}
		return true
	}
}

// RequireEntries passes listings that contain every given name.
func RequireEntries(names ...string) Validator[Listing] {
	return func(l Listing) bool {
		return l.Has(names...)
	}
}

// ContainsAll passes content that contains every given substring.
func ContainsAll(subs ...string) Validator[[]byte] {
	return func(b []byte) bool {
		for _, s := range subs {
			if !bytes.Contains(b, []byte(s)) {
				return false
			}
		}
		return true
	}
}

// ContainsNone passes content that contains none of the given substrings.
func ContainsNone(subs ...string) Validator[[]byte] {
	return func(b []byte) bool {
		for _, s := range subs {
			if bytes.Contains(b, []byte(s)) {
				return false
			}
		}
		return true
	}
}

// Equals passes content identical to want.
func Equals(want []byte) Validator[[]byte] {
	return func(b []byte) bool {
		return bytes.Equal(b, want)
	}
}
