package atomicfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

const defaultFilePerm fs.FileMode = 0o644

// ErrRejected is the cause recorded when a validator returns false.
var ErrRejected = errors.New("rejected by validator")

// WriteOptions configures Write.
type WriteOptions struct {
	// Validate runs on the staged bytes as read back from the temp file.
	Validate Validator[[]byte]

	// Backup copies the existing file aside before the swap. Ignored when
	// the path does not exist yet.
	Backup bool

	// Perm is used when creating a new file. Existing files keep their mode.
	Perm fs.FileMode
}

// WriteResult is the OperationResult of Write plus what a caller needs to
// undo it.
type WriteResult struct {
	domain.OperationResult

	// Backup is the copy taken before the swap, or nil.
	Backup *Backup

	// Created is true when path did not exist before the write.
	Created bool
}

// Write replaces the content of path atomically. Observers see either the
// previous content or content, never a partial file.
//
// Sequence: stage to a hidden sibling, validate the staged bytes, take the
// optional backup, rename over path. A failure before the rename leaves path
// untouched and the temp file removed.
func Write(ctx context.Context, fsys ports.FileSystem, path string, content []byte, opts WriteOptions) WriteResult {
	const op = "write"

	existed, info, err := exists(fsys, path)
	if err != nil {
		return WriteResult{OperationResult: domain.Failed(domain.NewOperationError(domain.KindIO, op, path, err))}
	}
	if existed && info.IsDir() {
		return WriteResult{OperationResult: domain.Failed(
			domain.NewOperationError(domain.KindIO, op, path, errors.New("path is a directory")))}
	}

	perm := opts.Perm
	if existed {
		perm = info.Mode().Perm()
	}
	if perm == 0 {
		perm = defaultFilePerm
	}

	tmp := tempPath(path)
	if err := fsys.WriteFile(tmp, content, perm); err != nil {
		return WriteResult{OperationResult: fail(ctx, fsys,
			domain.NewOperationError(domain.KindIO, op, path, fmt.Errorf("staging: %w", err)), tmp)}
	}

	if opts.Validate != nil {
		staged, err := fsys.ReadFile(tmp)
		if err != nil {
			return WriteResult{OperationResult: fail(ctx, fsys,
				domain.NewOperationError(domain.KindIO, op, path, fmt.Errorf("reading staged file: %w", err)), tmp)}
		}
		if !opts.Validate(staged) {
			return WriteResult{OperationResult: fail(ctx, fsys,
				domain.NewOperationError(domain.KindValidationFailed, op, path, ErrRejected), tmp)}
		}
	}

	var backup *Backup
	if opts.Backup && existed {
		backup, err = CreateBackup(fsys, path, time.Now())
		if err != nil {
			return WriteResult{OperationResult: fail(ctx, fsys,
				domain.NewOperationError(domain.KindIO, op, path, err), tmp)}
		}
	}

	if err := fsys.Rename(tmp, path); err != nil {
		opErr := domain.NewOperationError(domain.KindCommitFailed, op, path, err)
		logCommitFailure(ctx, op, path, err)
		leftovers := discard(ctx, fsys, tmp)
		if backup != nil {
			leftovers = append(leftovers, backup.BackupPath)
		}
		return WriteResult{OperationResult: domain.Failed(opErr, leftovers...), Backup: backup}
	}

	return WriteResult{OperationResult: domain.Succeeded(), Backup: backup, Created: !existed}
}
