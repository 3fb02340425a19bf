package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/atomicfs"
	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

const outputTail = 512

// setupStep runs the configured setup command inside a new project. Its
// compensation removes the artifacts the command created.
type setupStep struct {
	fs     ports.FileSystem
	runner ports.ProcessRunner
	dir    string
	cfg    config.SetupConfig

	// created lists artifact paths that did not exist before Execute.
	created []string
}

func (s *setupStep) Execute(ctx context.Context) error {
	s.created = nil
	for _, a := range s.cfg.Artifacts {
		p := filepath.Join(s.dir, a)
		found, err := s.fs.Exists(p)
		if err != nil {
			return domain.NewOperationError(domain.KindIO, "setup", p, err)
		}
		if !found {
			s.created = append(s.created, p)
		}
	}

	res, err := s.runner.Run(ctx, ports.Command{
		Name:    s.cfg.Command,
		Args:    s.cfg.Args,
		Dir:     s.dir,
		Timeout: s.cfg.Timeout,
	})
	if err == nil && res.ExitCode != 0 {
		err = fmt.Errorf("%s exited with status %d: %s", s.cfg.Command, res.ExitCode, tail(res.Output))
	}
	if err == nil {
		return nil
	}

	// The step did not complete, so the coordinator will not compensate it.
	if cleanErr := s.compensation().Run(ctx, s.fs); cleanErr != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to remove setup artifacts",
			slog.String("operation", "setupStep.Execute"),
			slog.String("path", s.dir),
			slog.Any("error", cleanErr),
		)
		err = errors.Join(err, cleanErr)
	}
	return domain.NewOperationError(domain.KindIO, "setup", s.dir, err)
}

func (s *setupStep) Rollback(ctx context.Context) error {
	return s.compensation().Run(ctx, s.fs)
}

func (s *setupStep) Description() string {
	return fmt.Sprintf("run %s in %s", strings.Join(append([]string{s.cfg.Command}, s.cfg.Args...), " "), s.dir)
}

func (s *setupStep) compensation() atomicfs.Compensation {
	return atomicfs.KillAndClean(nil, s.created...)
}

func tail(out string) string {
	out = strings.TrimSpace(out)
	if len(out) <= outputTail {
		return out
	}
	return "..." + out[len(out)-outputTail:]
}

// isNotExist reports whether err means the path is absent.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
