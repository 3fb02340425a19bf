package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/clients/acl"
	"github.com/jsamuelsen11/sitesmith/internal/domain"
)

// Exit codes for sitectl.
const (
	ExitSuccess   = 0 // Successful execution
	ExitFailure   = 1 // Operation failed and was rolled back, or the target was missing or taken
	ExitUsage     = 2 // Bad arguments, flags, or an invalid project name
	ExitAttention = 3 // Commit failed or the server never answered; the workspace needs a manual check
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Domain errors are
// classified when no explicit ExitError is present.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, domain.ErrCommitFailed), errors.Is(err, acl.ErrOutcomeUnknown):
		return ExitAttention
	case errors.Is(err, domain.ErrValidation):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// errorCode returns a stable machine-readable code for err.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid_argument"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, acl.ErrOutcomeUnknown):
		return "outcome_unknown"
	}
	if kind := domain.KindOf(err); kind != 0 {
		return kind.String()
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitUsage {
		return "usage"
	}
	return "error"
}

// OutputFormatter handles JSON vs text output for commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope for every command.
type Response struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for JSON output.
type CLIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success writes data as JSON, or text as-is in text mode.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Error writes err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.Format == "json" {
		cliErr := &CLIError{Code: errorCode(err), Message: err.Error()}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			cliErr.Fields = verr.Fields
		}
		return json.NewEncoder(f.Writer).Encode(Response{Status: "error", Error: cliErr})
	}

	_, werr := fmt.Fprintf(f.Writer, "error: %v\n", err)
	if errors.Is(err, domain.ErrCommitFailed) {
		_, werr = fmt.Fprintln(f.Writer, "the workspace may be inconsistent; check the paths above before retrying")
	}
	if errors.Is(err, acl.ErrOutcomeUnknown) {
		_, werr = fmt.Fprintln(f.Writer, "the server may have applied the change; run `sitectl list` before retrying")
	}
	return werr
}
