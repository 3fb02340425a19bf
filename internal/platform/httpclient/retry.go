package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
)

// jitter is the spread applied around each backoff delay, as a fraction.
const jitter = 0.25

// errRetryable is wrapped by the error returned when the last attempt still
// got a retryable status.
var errRetryable = errors.New("retryable status")

// send runs req until it gets a final answer or runs out of attempts. Only
// idempotent methods get more than one attempt.
//
// When the attempts end on a retryable status, the last response is returned
// with its body open alongside the error.
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.retry.maxAttempts < 1 {
		return nil, fmt.Errorf("httpclient: max attempts must be at least 1, got %d", c.retry.maxAttempts)
	}

	attempts := 1
	if isIdempotent(req.Method) {
		attempts = c.retry.maxAttempts
		if err := replayable(req); err != nil {
			return nil, err
		}
	}

	var wait time.Duration
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			if err := c.pause(ctx, req, attempt, wait); err != nil {
				return nil, err
			}
		}

		try, err := rewind(ctx, req)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(try)
		last := attempt == attempts
		switch {
		case err != nil:
			if last || ctx.Err() != nil {
				return nil, err
			}
			wait = c.backoff(attempt)
		case !isRetryableStatus(resp.StatusCode):
			return resp, nil
		case last:
			return resp, fmt.Errorf("%s answered %d after %d attempts: %w",
				c.serviceName, resp.StatusCode, attempt, errRetryable)
		default:
			wait = max(c.backoff(attempt), retryAfter(resp))
			discard(resp)
		}
	}
}

// pause logs the upcoming attempt and sleeps for d or until ctx is done.
func (c *Client) pause(ctx context.Context, req *http.Request, attempt int, d time.Duration) error {
	logging.FromContext(ctx).WarnContext(ctx, "retrying request",
		slog.String("peer", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("attempt", attempt),
		slog.Int("max_attempts", c.retry.maxAttempts),
		slog.Duration("wait", d),
	)

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff returns the delay before the attempt after attempt: the initial
// interval grown by the multiplier, capped, then spread by jitter.
func (c *Client) backoff(attempt int) time.Duration {
	d := float64(c.retry.initialInterval)
	for range attempt - 1 {
		d *= c.retry.multiplier
		if d >= float64(c.retry.maxInterval) {
			break
		}
	}
	d = min(d, float64(c.retry.maxInterval))
	d *= 1 + jitter*(2*rand.Float64()-1)
	return time.Duration(max(d, 0))
}

// retryAfter reads a Retry-After header given in seconds. Dates are ignored.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// replayable makes sure req.GetBody can produce the body again.
// http.NewRequest sets it for in-memory bodies; anything else is read once
// into memory here.
func replayable(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	req.Body, _ = req.GetBody()
	req.ContentLength = int64(len(b))
	return nil
}

// rewind returns a copy of req bound to ctx with a fresh body.
func rewind(ctx context.Context, req *http.Request) (*http.Request, error) {
	try := req.Clone(ctx)
	if req.GetBody == nil {
		return try, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewinding request body: %w", err)
	}
	try.Body = body
	return try, nil
}

// discard drains and closes a response that will not be returned so the
// connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// isIdempotent reports whether a request with the given method may be sent
// more than once.
func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// isRetryableStatus reports whether another attempt may get a different
// answer: 429 and every 5xx except 501.
func isRetryableStatus(code int) bool {
	switch {
	case code == http.StatusTooManyRequests:
		return true
	case code == http.StatusNotImplemented:
		return false
	default:
		return code >= http.StatusInternalServerError
	}
}
