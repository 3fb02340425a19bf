package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/sitesmith/internal/platform/httpclient"
)

// ErrOutcomeUnknown marks a mutating request that reached the transport but
// got no response. The server may have committed it; list the workspace
// before sending it again.
var ErrOutcomeUnknown = errors.New("request sent but no response received")

// Requester sends JSON requests to the sitesmith server and maps non-matching
// responses to domain errors with [TranslateHTTPError].
type Requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewRequester creates a Requester backed by client.
func NewRequester(client *httpclient.Client, logger *slog.Logger) *Requester {
	return &Requester{client: client, logger: logger}
}

// BaseURL returns the base URL from the underlying HTTP client.
func (r *Requester) BaseURL() string {
	return r.client.BaseURL()
}

// HealthCheck reports the underlying client's circuit breaker state.
func (r *Requester) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}

// Do sends method to path and expects wantStatus back. A non-nil reqBody is
// sent as JSON; a non-nil respBody receives the decoded response.
func (r *Requester) Do(ctx context.Context, method, path string, wantStatus int, reqBody, respBody any) error {
	req, err := r.newRequest(ctx, method, path, reqBody)
	if err != nil {
		return err
	}

	log := r.logger.With(
		slog.String("peer", r.client.Name()),
		slog.String("method", method),
		slog.String("path", path),
	)

	resp, err := r.client.Do(ctx, req)
	if resp != nil {
		defer drain(resp)
	}

	switch {
	case resp != nil && resp.StatusCode == wantStatus:
		// Retried statuses (429, 5xx) are never wanted, so err is nil here.
	case resp != nil:
		log.WarnContext(ctx, "unexpected status",
			slog.Int("status", resp.StatusCode),
			slog.Int("want_status", wantStatus),
		)
		return TranslateHTTPError(resp)
	case err != nil:
		log.ErrorContext(ctx, "request failed", slog.Any("error", err))
		return transportError(method, path, err)
	}

	if respBody == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (r *Requester) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var payload io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.client.BaseURL()+path, payload)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// transportError wraps a failure that produced no response. Reads and
// requests the breaker rejected never changed anything; any other mutating
// request is reported as ErrOutcomeUnknown.
func transportError(method, path string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests),
		method == http.MethodGet, method == http.MethodHead:
		return fmt.Errorf("%s %s: %w", method, path, err)
	default:
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrOutcomeUnknown, err)
	}
}

// drain discards what is left of the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
	_ = resp.Body.Close()
}
