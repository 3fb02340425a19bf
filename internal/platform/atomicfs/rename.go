package atomicfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

const opRename = "rename"

// RenameOptions configures Rename.
type RenameOptions struct {
	// Validate runs on the listing at the new path after the move.
	Validate Validator[Listing]
}

// Rename moves oldPath to newPath in one rename call, then validates the
// result. A rejected result is renamed back; if that second rename fails the
// error is KindCommitFailed and both paths need inspection.
func Rename(ctx context.Context, fsys ports.FileSystem, oldPath, newPath string, opts RenameOptions) domain.OperationResult {
	if err := fsys.Rename(oldPath, newPath); err != nil {
		return domain.Failed(domain.NewOperationError(domain.KindIO, opRename, oldPath, err))
	}

	if opts.Validate == nil {
		return domain.Succeeded()
	}

	listing, err := List(fsys, newPath)
	if err == nil && opts.Validate(listing) {
		return domain.Succeeded()
	}

	cause := ErrRejected
	if err != nil {
		cause = fmt.Errorf("listing %s: %w", newPath, err)
	}

	if backErr := fsys.Rename(newPath, oldPath); backErr != nil {
		joined := errors.Join(cause, fmt.Errorf("renaming back to %s: %w", oldPath, backErr))
		logCommitFailure(ctx, opRename, newPath, joined)
		return domain.Failed(domain.NewOperationError(domain.KindCommitFailed, opRename, newPath, joined))
	}

	return domain.Failed(domain.NewOperationError(domain.KindValidationFailed, opRename, newPath, cause))
}
