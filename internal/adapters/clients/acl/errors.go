// Package acl implements the Anti-Corruption Layer between the sitesmith
// HTTP API and the domain. The remote client lets sitectl drive a running
// server through the same ports.ProjectService the local service implements.
// Wire schemas and their translators live in acl/project; error mapping
// lives here.
package acl

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
)

// maxErrorBodySize bounds how much of an error body is read.
const maxErrorBodySize = 1 << 20

// Problem types the server sets when the status code alone is ambiguous.
const (
	typeValidationFailed = "urn:sitesmith:validation-failed"
	typeCommitFailed     = "urn:sitesmith:commit-failed"
	typeNotImplemented   = "urn:sitesmith:not-implemented"
)

// remoteOp is the Op recorded on operation errors rebuilt from a response.
const remoteOp = "remote"

// problem is the subset of an RFC 9457 document the client reads.
type problem struct {
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
	Errors   []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// TranslateHTTPError turns an error response into the error the local
// service would have returned, so errors.Is checks work the same in both
// modes.
//
// Request errors become the domain sentinels. Transaction failures become
// *domain.OperationError, with the problem type deciding the kind so a
// commit failure never looks like an ordinary I/O error.
func TranslateHTTPError(resp *http.Response) error {
	p := readProblem(resp)
	detail := cmp.Or(p.Detail, http.StatusText(resp.StatusCode))
	opErr := func(kind domain.ErrorKind) error {
		return domain.NewOperationError(kind, remoteOp, p.Instance, errors.New(detail))
	}

	code := resp.StatusCode
	switch {
	case code == http.StatusBadRequest && len(p.Errors) > 0:
		fields := make(map[string]string, len(p.Errors))
		for _, e := range p.Errors {
			fields[strings.TrimPrefix(e.Location, "body.")] = e.Message
		}
		return &domain.ValidationError{Fields: fields}
	case code == http.StatusBadRequest:
		return fmt.Errorf("%s: %w", detail, domain.ErrValidation)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, domain.ErrNotFound)
	case code == http.StatusConflict:
		return fmt.Errorf("%s: %w", detail, domain.ErrConflict)
	case code == http.StatusUnprocessableEntity, p.Type == typeValidationFailed:
		return opErr(domain.KindValidationFailed)
	case p.Type == typeCommitFailed:
		return opErr(domain.KindCommitFailed)
	case code == http.StatusNotImplemented, p.Type == typeNotImplemented:
		return opErr(domain.KindNotImplemented)
	case code == http.StatusInternalServerError:
		return opErr(domain.KindIO)
	case code == http.StatusTooManyRequests, code > http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", detail, domain.ErrUnavailable)
	default:
		return fmt.Errorf("unexpected status %d: %s", code, detail)
	}
}

// readProblem decodes a problem+json body. Anything else yields a zero
// problem.
func readProblem(resp *http.Response) problem {
	var p problem
	if resp.Body == nil || !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/problem+json") {
		return p
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&p); err != nil {
		return problem{}
	}
	return p
}
