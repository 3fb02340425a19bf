// Package process runs external commands for the setup step of project
// creation.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/jsamuelsen11/sitesmith/internal/ports"
)

// Compile-time interface check.
var _ ports.ProcessRunner = (*Runner)(nil)

// ErrTimeout is returned when a command is killed after its timeout.
var ErrTimeout = errors.New("process: timed out")

const (
	// DefaultTimeout bounds commands that do not set their own timeout.
	DefaultTimeout = 5 * time.Minute

	// DefaultMaxOutput caps captured combined output, in bytes.
	DefaultMaxOutput = 64 << 10

	// waitDelay is how long to wait for output pipes after the process is
	// killed, in case it left children holding them open.
	waitDelay = 2 * time.Second
)

// Runner executes commands with os/exec.
//
// Safe for concurrent use. Each Run creates its own process.
type Runner struct {
	timeout   time.Duration
	maxOutput int
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithDefaultTimeout overrides DefaultTimeout.
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxOutput overrides DefaultMaxOutput.
func WithMaxOutput(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxOutput = n
		}
	}
}

// New creates a Runner.
func New(logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		timeout:   DefaultTimeout,
		maxOutput: DefaultMaxOutput,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts cmd and waits for it. A non-zero exit is not an error.
func (r *Runner) Run(ctx context.Context, c ports.Command) (*ports.ProcessResult, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay

	var out bytes.Buffer
	limited := &limitedWriter{w: &out, limit: r.maxOutput}
	cmd.Stdout = limited
	cmd.Stderr = limited

	r.logger.DebugContext(ctx, "executing command",
		slog.String("command", c.Name),
		slog.Any("args", c.Args),
		slog.String("dir", c.Dir),
		slog.Duration("timeout", timeout),
	)

	start := time.Now()
	err := cmd.Run()

	result := &ports.ProcessResult{
		Output:    out.String(),
		Truncated: limited.truncated,
		Duration:  time.Since(start),
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ExitCode = -1
		r.logger.WarnContext(ctx, "command timed out",
			slog.String("command", c.Name),
			slog.Duration("timeout", timeout),
		)
		return result, fmt.Errorf("%w after %s: %s", ErrTimeout, timeout, c.Name)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, fmt.Errorf("running %s: %w", c.Name, err)
	}

	return result, nil
}

// limitedWriter wraps a writer with a size limit. Writes past the limit are
// discarded and reported as successful.
type limitedWriter struct {
	w         io.Writer
	limit     int
	written   int
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	if lw.written >= lw.limit {
		lw.truncated = true
		return len(p), nil
	}

	remaining := lw.limit - lw.written
	chunk := p
	if len(chunk) > remaining {
		chunk = chunk[:remaining]
		lw.truncated = true
	}

	n, err := lw.w.Write(chunk)
	lw.written += n
	if err != nil {
		return n, err
	}
	return len(p), nil
}
