package atomicfs

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

const backupTimeFormat = "20060102T150405.000000000Z"

// Backup is a copy of a file taken immediately before it is overwritten.
//
// It is deleted when the owning transaction commits and consumed by Restore
// when the owning step rolls back. A backup whose restore fails stays on disk.
type Backup struct {
	OriginalPath string
	BackupPath   string
	CreatedAt    time.Time
}

// BackupPath derives the backup location for path at the given time.
func BackupPath(path string, at time.Time) string {
	return path + ".bak-" + at.UTC().Format(backupTimeFormat)
}

// CreateBackup copies path to its derived backup location.
func CreateBackup(fsys ports.FileSystem, path string, at time.Time) (*Backup, error) {
	b := &Backup{
		OriginalPath: path,
		BackupPath:   BackupPath(path, at),
		CreatedAt:    at,
	}
	if err := fsys.CopyFile(path, b.BackupPath); err != nil {
		return nil, fmt.Errorf("backing up %s: %w", path, err)
	}
	return b, nil
}

// Restore moves the backup over the original path in a single rename.
func (b *Backup) Restore(fsys ports.FileSystem) error {
	if err := fsys.Rename(b.BackupPath, b.OriginalPath); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", b.OriginalPath, b.BackupPath, err)
	}
	return nil
}

// Discard deletes the backup. A backup that is already gone is not an error.
func (b *Backup) Discard(fsys ports.FileSystem) error {
	if err := fsys.Remove(b.BackupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discarding backup %s: %w", b.BackupPath, err)
	}
	return nil
}
