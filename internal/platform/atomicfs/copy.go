package atomicfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

const opCopy = "copy_directory"

// ErrDestinationExists is returned by CopyDir when dest is already present.
var ErrDestinationExists = errors.New("destination already exists")

// CopyOptions configures CopyDir.
type CopyOptions struct {
	// Exclude holds filepath.Match patterns tested against entry base names
	// at every depth. A matching directory is skipped with its contents.
	Exclude []string

	// Validate runs on the sorted top-level listing of the staged copy.
	Validate Validator[Listing]
}

// CopyDir copies the tree at src to dest, which must not exist. dest either
// appears complete and validated or does not appear at all.
//
// Regular files and directories are copied with their permission bits.
// Symlinks to regular files are copied as files; any other special entry
// fails with KindNotImplemented.
func CopyDir(ctx context.Context, fsys ports.FileSystem, src, dest string, opts CopyOptions) domain.OperationResult {
	found, info, err := exists(fsys, src)
	switch {
	case err != nil:
		return domain.Failed(domain.NewOperationError(domain.KindIO, opCopy, src, err))
	case !found:
		return domain.Failed(domain.NewOperationError(domain.KindIO, opCopy, src, fs.ErrNotExist))
	case !info.IsDir():
		return domain.Failed(domain.NewOperationError(domain.KindIO, opCopy, src, errors.New("source is not a directory")))
	}

	taken, _, err := exists(fsys, dest)
	if err != nil {
		return domain.Failed(domain.NewOperationError(domain.KindIO, opCopy, dest, err))
	}
	if taken {
		return domain.Failed(domain.NewOperationError(domain.KindIO, opCopy, dest, ErrDestinationExists))
	}

	staging := stagingPath(dest)
	if err := fsys.MkdirAll(staging, info.Mode().Perm()); err != nil {
		return fail(ctx, fsys, domain.NewOperationError(domain.KindIO, opCopy, dest, err), staging)
	}

	if err := copyTree(ctx, fsys, src, staging, opts.Exclude); err != nil {
		var opErr *domain.OperationError
		if !errors.As(err, &opErr) {
			opErr = domain.NewOperationError(domain.KindIO, opCopy, dest, err)
		}
		return fail(ctx, fsys, opErr, staging)
	}

	if opts.Validate != nil {
		listing, err := List(fsys, staging)
		if err != nil {
			return fail(ctx, fsys, domain.NewOperationError(domain.KindIO, opCopy, dest, err), staging)
		}
		if !opts.Validate(listing) {
			return fail(ctx, fsys, domain.NewOperationError(domain.KindValidationFailed, opCopy, dest, ErrRejected), staging)
		}
	}

	if err := fsys.Rename(staging, dest); err != nil {
		logCommitFailure(ctx, opCopy, dest, err)
		return fail(ctx, fsys, domain.NewOperationError(domain.KindCommitFailed, opCopy, dest, err), staging)
	}

	return domain.Succeeded()
}

// Excluded reports whether name matches any of the patterns.
func Excluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

func copyTree(ctx context.Context, fsys ports.FileSystem, src, dst string, exclude []string) error {
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := e.Name()
		if Excluded(name, exclude) {
			continue
		}
		from, to := filepath.Join(src, name), filepath.Join(dst, name)

		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			target, err := fsys.Stat(from)
			if err != nil {
				return fmt.Errorf("resolving symlink %s: %w", from, err)
			}
			if !target.Mode().IsRegular() {
				return domain.NewOperationError(domain.KindNotImplemented, opCopy, from,
					errors.New("symlink to a non-regular file"))
			}
			mode = 0
		}

		switch {
		case mode.IsDir():
			info, err := e.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", from, err)
			}
			if err := fsys.MkdirAll(to, info.Mode().Perm()); err != nil {
				return fmt.Errorf("creating %s: %w", to, err)
			}
			if err := copyTree(ctx, fsys, from, to, exclude); err != nil {
				return err
			}
		case mode.IsRegular():
			if err := fsys.CopyFile(from, to); err != nil {
				return fmt.Errorf("copying %s: %w", from, err)
			}
		default:
			return domain.NewOperationError(domain.KindNotImplemented, opCopy, from,
				fmt.Errorf("unsupported file type %s", mode.Type()))
		}
	}
	return nil
}
