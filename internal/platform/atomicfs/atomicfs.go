// Package atomicfs provides single-operation filesystem mutations with
// all-or-nothing visibility: atomic file write, atomic directory copy, and
// atomic rename, each with an optional validator.
//
// Every primitive stages its work at a temporary path next to the target
// (same parent directory, so the same volume) and makes it visible with one
// rename. Primitives never panic across their boundary; they report through
// domain.OperationResult:
//
//	res := atomicfs.Write(ctx, fsys, path, content, atomicfs.WriteOptions{
//	    Validate: atomicfs.ContainsAll("title:"),
//	    Backup:   true,
//	})
//	if !res.Success {
//	    return res.Err // *domain.OperationError
//	}
//
// The Step types wrap the primitives as domain.Action values with typed
// compensations, ready to be registered on a txn.Transaction.
package atomicfs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

const (
	tempInfix    = ".tmp-"
	stagingInfix = ".staging-"
)

// tempPath returns a hidden sibling of path for staging a file write.
func tempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+tempInfix+shortID())
}

// stagingPath returns a hidden sibling of dest for staging a directory copy.
func stagingPath(dest string) string {
	dir, base := filepath.Split(filepath.Clean(dest))
	return filepath.Join(dir, "."+base+stagingInfix+shortID())
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// IsStagingName reports whether name was produced by a primitive as a
// staging or temp path.
func IsStagingName(name string) bool {
	return strings.HasPrefix(name, ".") &&
		(strings.Contains(name, tempInfix) || strings.Contains(name, stagingInfix))
}

// discard removes staging paths and returns the ones that could not be
// removed, so they can be reported in OperationResult.TemporaryPaths.
func discard(ctx context.Context, fsys ports.FileSystem, paths ...string) []string {
	var left []string
	for _, p := range paths {
		if err := fsys.RemoveAll(p); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "failed to remove staging path",
				slog.String("operation", "atomicfs.discard"),
				slog.String("path", p),
				slog.Any("error", err),
			)
			left = append(left, p)
		}
	}
	return left
}

// fail discards staging paths and builds a failed result.
func fail(ctx context.Context, fsys ports.FileSystem, err *domain.OperationError, staged ...string) domain.OperationResult {
	return domain.Failed(err, discard(ctx, fsys, staged...)...)
}

// exists wraps FileSystem.Stat into a (found, info, err) triple where a
// missing path is not an error.
func exists(fsys ports.FileSystem, path string) (bool, fs.FileInfo, error) {
	info, err := fsys.Stat(path)
	switch {
	case err == nil:
		return true, info, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil, nil
	default:
		return false, nil, err
	}
}

// logCommitFailure records a failed final swap. These need a human.
func logCommitFailure(ctx context.Context, op, path string, err error) {
	logging.FromContext(ctx).ErrorContext(ctx, "atomic commit failed",
		slog.String("operation", op),
		slog.String("path", path),
		logging.RequiresAttention(),
		slog.Any("error", err),
	)
}
