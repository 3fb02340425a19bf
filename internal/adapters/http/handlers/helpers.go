package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/sitesmith/internal/adapters/http/dto"
	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
)

// maxBodyBytes bounds request bodies. Every body is a single name.
const maxBodyBytes = 64 << 10

// pathName returns the unescaped {param} segment. Clients percent-encode
// names since they may hold spaces and non-ASCII letters.
func pathName(r *http.Request, param string) (string, error) {
	name, err := url.PathUnescape(chi.URLParam(r, param))
	if err != nil {
		return "", domain.NewValidationError(param, "must be a valid percent-encoded name")
	}
	return name, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).WarnContext(r.Context(), "writing response body", slog.Any("error", err))
	}
}

type validatable interface {
	Validate() error
}

// decodeAndValidate reads exactly one JSON object into dst and validates
// it. Unknown fields are rejected. On failure it writes the problem response
// and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.Decode(&struct{}{}) != io.EOF {
		err = errors.New("trailing data")
	}
	if err != nil {
		dto.WriteErrorResponse(w, r, domain.NewValidationError("payload", bodyProblem(err)))
		return false
	}

	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

func bodyProblem(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return "request body is too large"
	case errors.Is(err, io.EOF):
		return "request body is empty"
	default:
		return "request body must be a single JSON object: " + err.Error()
	}
}
