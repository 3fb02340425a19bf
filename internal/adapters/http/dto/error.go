package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
)

// Problem types set when the status code alone does not say what happened
// to the workspace.
const (
	TypeValidationFailed = "urn:sitesmith:validation-failed"
	TypeCommitFailed     = "urn:sitesmith:commit-failed"
	TypeNotImplemented   = "urn:sitesmith:not-implemented"
)

// ErrorResponse is an RFC 9457 problem document.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one rejected request field.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse describes err as a problem document for r.
//
// Request errors are classified before operation errors, so a bad name is
// never reported as a server failure. A rolled back transaction that failed
// validation is 422; a commit failure is 500 with TypeCommitFailed so
// clients can tell it apart from a clean rollback.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status, typ := classify(err)
	resp := ErrorResponse{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, field := range slices.Sorted(maps.Keys(verr.Fields)) {
			resp.Errors = append(resp.Errors, ErrorDetail{Location: "body." + field, Message: verr.Fields[field]})
		}
	}
	return resp
}

// WriteErrorResponse writes err as application/problem+json.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	writeProblem(w, r, NewErrorResponse(r, err))
}

// WriteStatusResponse writes a problem document that carries only status,
// for routing failures that never reach a handler.
func WriteStatusResponse(w http.ResponseWriter, r *http.Request, status int) {
	writeProblem(w, r, ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Instance: r.RequestURI,
	})
}

func writeProblem(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "writing problem response", slog.Any("error", encErr))
	}
}

func classify(err error) (status int, typ string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "about:blank"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "about:blank"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "about:blank"
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, "about:blank"
	}

	switch domain.KindOf(err) {
	case domain.KindValidationFailed:
		return http.StatusUnprocessableEntity, TypeValidationFailed
	case domain.KindCommitFailed:
		return http.StatusInternalServerError, TypeCommitFailed
	case domain.KindNotImplemented:
		return http.StatusNotImplemented, TypeNotImplemented
	default:
		return http.StatusInternalServerError, "about:blank"
	}
}
