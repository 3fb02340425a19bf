package atomicfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// CompensationKind names the ways a completed step can be undone.
type CompensationKind int

const (
	// CompensateNone undoes nothing. Used for steps with no visible effect.
	CompensateNone CompensationKind = iota
	// CompensateDeletePath removes a path the step created.
	CompensateDeletePath
	// CompensateRestoreBackup renames a backup over the original file.
	CompensateRestoreBackup
	// CompensateRenameBack moves a renamed path back to where it was.
	CompensateRenameBack
	// CompensateKillAndClean stops a process and removes its artifacts.
	CompensateKillAndClean
)

func (k CompensationKind) String() string {
	switch k {
	case CompensateNone:
		return "none"
	case CompensateDeletePath:
		return "delete_path"
	case CompensateRestoreBackup:
		return "restore_backup"
	case CompensateRenameBack:
		return "rename_back"
	case CompensateKillAndClean:
		return "kill_and_clean"
	default:
		return "unknown"
	}
}

// Compensation is the undo for one completed step. Only the fields for Kind
// are meaningful.
type Compensation struct {
	Kind CompensationKind

	// Path is deleted by CompensateDeletePath.
	Path string

	// Backup is restored by CompensateRestoreBackup.
	Backup *Backup

	// To is moved back to From by CompensateRenameBack.
	From, To string

	// Kill stops the process (may be nil) and Paths are removed by
	// CompensateKillAndClean.
	Kill  func()
	Paths []string
}

// NoCompensation undoes nothing.
func NoCompensation() Compensation {
	return Compensation{Kind: CompensateNone}
}

// DeletePath removes path recursively.
func DeletePath(path string) Compensation {
	return Compensation{Kind: CompensateDeletePath, Path: path}
}

// RestoreBackup puts b back over its original file.
func RestoreBackup(b *Backup) Compensation {
	return Compensation{Kind: CompensateRestoreBackup, Backup: b}
}

// RenameBack moves to back to from.
func RenameBack(from, to string) Compensation {
	return Compensation{Kind: CompensateRenameBack, From: from, To: to}
}

// KillAndClean stops a process and removes the artifacts it produced.
func KillAndClean(kill func(), paths ...string) Compensation {
	return Compensation{Kind: CompensateKillAndClean, Kill: kill, Paths: paths}
}

// Run performs the compensation. Deleting something already gone succeeds.
func (c Compensation) Run(_ context.Context, fsys ports.FileSystem) error {
	switch c.Kind {
	case CompensateNone:
		return nil
	case CompensateDeletePath:
		if err := fsys.RemoveAll(c.Path); err != nil {
			return fmt.Errorf("deleting %s: %w", c.Path, err)
		}
		return nil
	case CompensateRestoreBackup:
		if c.Backup == nil {
			return errors.New("restore requested without a backup")
		}
		return c.Backup.Restore(fsys)
	case CompensateRenameBack:
		if err := fsys.Rename(c.To, c.From); err != nil {
			return fmt.Errorf("renaming %s back to %s: %w", c.To, c.From, err)
		}
		return nil
	case CompensateKillAndClean:
		if c.Kill != nil {
			c.Kill()
		}
		var errs []error
		for _, p := range c.Paths {
			if err := fsys.RemoveAll(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("removing artifact %s: %w", p, err))
			}
		}
		return errors.Join(errs...)
	default:
		return fmt.Errorf("unknown compensation kind %d", c.Kind)
	}
}

func (c Compensation) String() string {
	switch c.Kind {
	case CompensateDeletePath:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Path)
	case CompensateRestoreBackup:
		if c.Backup != nil {
			return fmt.Sprintf("%s(%s)", c.Kind, c.Backup.OriginalPath)
		}
	case CompensateRenameBack:
		return fmt.Sprintf("%s(%s -> %s)", c.Kind, c.To, c.From)
	case CompensateKillAndClean:
		return fmt.Sprintf("%s(%d paths)", c.Kind, len(c.Paths))
	}
	return c.Kind.String()
}
