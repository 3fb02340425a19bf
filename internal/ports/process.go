package ports

import (
	"context"
	"time"
)

// Command describes an external process to spawn and wait for.
type Command struct {
	Name string
	Args []string
	Dir  string

	// Timeout bounds the wait. Zero means the runner's default applies;
	// there is never an unbounded wait.
	Timeout time.Duration
}

// ProcessResult is the outcome of a process that was started.
type ProcessResult struct {
	ExitCode  int
	Output    string
	Truncated bool
	TimedOut  bool
	Duration  time.Duration
}

// ProcessRunner spawns a command and waits for it to exit.
type ProcessRunner interface {
	// Run starts cmd and blocks until it exits, the timeout elapses, or ctx
	// is done. A non-zero exit is reported through ProcessResult.ExitCode,
	// not as an error. Errors mean the process could not be started or was
	// killed on timeout; in the timeout case the result is still returned.
	Run(ctx context.Context, cmd Command) (*ProcessResult, error)
}
