package atomicfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

var (
	_ domain.Action                = (*CopyDirStep)(nil)
	_ domain.TemporaryPathReporter = (*CopyDirStep)(nil)
	_ domain.Action                = (*WriteStep)(nil)
	_ domain.Committer             = (*WriteStep)(nil)
	_ domain.TemporaryPathReporter = (*WriteStep)(nil)
	_ domain.Action                = (*RenameStep)(nil)
)

// CopyDirStep copies Src to Dest. Its compensation deletes Dest.
type CopyDirStep struct {
	FS      ports.FileSystem
	Src     string
	Dest    string
	Options CopyOptions

	leftovers []string
}

func (s *CopyDirStep) Execute(ctx context.Context) error {
	res := CopyDir(ctx, s.FS, s.Src, s.Dest, s.Options)
	s.leftovers = res.TemporaryPaths
	if !res.Success {
		return res.Err
	}
	return nil
}

func (s *CopyDirStep) Rollback(ctx context.Context) error {
	return DeletePath(s.Dest).Run(ctx, s.FS)
}

func (s *CopyDirStep) Description() string {
	return fmt.Sprintf("copy %s to %s", s.Src, s.Dest)
}

func (s *CopyDirStep) TemporaryPaths() []string {
	return s.leftovers
}

// Transform computes new file content from the current content. current is
// nil when the file does not exist.
type Transform func(current []byte) ([]byte, error)

// WriteStep rewrites Path with Transform applied to its current content.
// An existing file is backed up first; the compensation restores the backup,
// or deletes the file if the step created it. Commit discards the backup.
type WriteStep struct {
	FS        ports.FileSystem
	Path      string
	Transform Transform
	Validate  Validator[[]byte]
	Label     string

	backup       *Backup
	compensation Compensation
	leftovers    []string
}

func (s *WriteStep) Execute(ctx context.Context) error {
	current, err := s.FS.ReadFile(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.NewOperationError(domain.KindIO, "write", s.Path, err)
	}

	next, err := s.Transform(current)
	if err != nil {
		return domain.NewOperationError(domain.KindValidationFailed, "write", s.Path, err)
	}

	res := Write(ctx, s.FS, s.Path, next, WriteOptions{Validate: s.Validate, Backup: true})
	s.leftovers = res.TemporaryPaths
	if !res.Success {
		return res.Err
	}

	s.backup = res.Backup
	switch {
	case res.Backup != nil:
		s.compensation = RestoreBackup(res.Backup)
	case res.Created:
		s.compensation = DeletePath(s.Path)
	default:
		s.compensation = NoCompensation()
	}
	return nil
}

func (s *WriteStep) Rollback(ctx context.Context) error {
	return s.compensation.Run(ctx, s.FS)
}

func (s *WriteStep) Commit(_ context.Context) error {
	if s.backup == nil {
		return nil
	}
	return s.backup.Discard(s.FS)
}

func (s *WriteStep) Description() string {
	if s.Label != "" {
		return s.Label
	}
	return "write " + s.Path
}

func (s *WriteStep) TemporaryPaths() []string {
	return s.leftovers
}

// RenameStep moves From to To. Its compensation moves it back.
type RenameStep struct {
	FS       ports.FileSystem
	From     string
	To       string
	Validate Validator[Listing]
}

func (s *RenameStep) Execute(ctx context.Context) error {
	res := Rename(ctx, s.FS, s.From, s.To, RenameOptions{Validate: s.Validate})
	if !res.Success {
		return res.Err
	}
	return nil
}

func (s *RenameStep) Rollback(ctx context.Context) error {
	return RenameBack(s.From, s.To).Run(ctx, s.FS)
}

func (s *RenameStep) Description() string {
	return fmt.Sprintf("rename %s to %s", s.From, s.To)
}
