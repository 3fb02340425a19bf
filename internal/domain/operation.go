package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures of filesystem mutations.
type ErrorKind int

const (
	// KindIO means an underlying filesystem or process call failed. Partial
	// state may or may not exist depending on which call failed.
	KindIO ErrorKind = iota + 1

	// KindValidationFailed means staged content or structure was rejected by
	// a caller-supplied validator. Nothing visible was mutated.
	KindValidationFailed

	// KindCommitFailed means the final atomic swap failed after validation
	// passed. The affected paths need operator attention.
	KindCommitFailed

	// KindNotImplemented means the requested capability has no backend.
	KindNotImplemented
)

// String returns the kind's wire name.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io_error"
	case KindValidationFailed:
		return "validation_failed"
	case KindCommitFailed:
		return "commit_failed"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return "unknown"
	}
}

// Sentinels matched by OperationError.Is so callers can write
// errors.Is(err, domain.ErrCommitFailed) without unpacking the kind.
var (
	ErrIO               = errors.New("io error")
	ErrValidationFailed = errors.New("validation failed")
	ErrCommitFailed     = errors.New("commit failed")
	ErrNotImplemented   = errors.New("not implemented")
)

// OperationError is the error carried by a failed OperationResult. Op names
// the primitive or step ("write", "copy_directory", "rename") and Path the
// location it was mutating.
type OperationError struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

// NewOperationError builds an OperationError. err may be nil for failures
// that have no underlying cause (a validator returning false).
func NewOperationError(kind ErrorKind, op, path string, err error) *OperationError {
	return &OperationError{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *OperationError) Is(target error) bool {
	switch e.Kind {
	case KindIO:
		return target == ErrIO
	case KindValidationFailed:
		return target == ErrValidationFailed
	case KindCommitFailed:
		return target == ErrCommitFailed
	case KindNotImplemented:
		return target == ErrNotImplemented
	default:
		return false
	}
}

// KindOf returns the ErrorKind of the first OperationError in err's chain,
// or 0 if there is none.
func KindOf(err error) ErrorKind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return 0
}

// OperationResult is the outcome of a primitive or a transaction.
//
// If Success is false, the paths the caller asked to mutate are unchanged,
// or RollbackPerformed is true and the caller may need to re-check them
// because rollback is best-effort.
type OperationResult struct {
	Success bool
	Err     error

	// RollbackPerformed is true when at least one compensating action ran.
	// Always false for bare primitives.
	RollbackPerformed bool

	// TemporaryPaths lists staging or backup paths still on disk after the
	// attempt. Normally empty after a successful commit.
	TemporaryPaths []string
}

// Succeeded returns a successful OperationResult.
func Succeeded() OperationResult {
	return OperationResult{Success: true}
}

// Failed returns a failed OperationResult carrying err and any staging paths
// left behind.
func Failed(err error, leftovers ...string) OperationResult {
	return OperationResult{Err: err, TemporaryPaths: leftovers}
}
