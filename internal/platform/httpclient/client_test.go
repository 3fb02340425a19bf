package httpclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/sitesmith/internal/platform/config"
	"github.com/jsamuelsen11/sitesmith/internal/platform/httpclient"
	"github.com/jsamuelsen11/sitesmith/internal/platform/telemetry"
)

func remoteConfig(baseURL string) *config.RemoteConfig {
	return &config.RemoteConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
			Multiplier:      2,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
}

// scripted answers the n-th request with statuses[n], repeating the last one.
type scripted struct {
	statuses []int
	calls    atomic.Int32

	mu     sync.Mutex
	bodies []string
}

func (s *scripted) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(s.calls.Add(1)) - 1
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		s.mu.Lock()
		s.bodies = append(s.bodies, string(b))
		s.mu.Unlock()
	}
	w.WriteHeader(s.statuses[min(n, len(s.statuses)-1)])
}

func send(t *testing.T, c *httpclient.Client, ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	t.Helper()

	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := c.Do(ctx, req)
	if resp != nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return resp, err
}

func TestDo_Attempts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		statuses   []int
		wantCalls  int32
		wantStatus int
		wantErr    bool
	}{
		{name: "first try", method: http.MethodGet, statuses: []int{200}, wantCalls: 1, wantStatus: 200},
		{name: "recovers after 503", method: http.MethodGet, statuses: []int{503, 503, 200}, wantCalls: 3, wantStatus: 200},
		{name: "429 is retried", method: http.MethodGet, statuses: []int{429, 200}, wantCalls: 2, wantStatus: 200},
		{name: "4xx is final", method: http.MethodGet, statuses: []int{404}, wantCalls: 1, wantStatus: 404},
		{name: "501 is final", method: http.MethodGet, statuses: []int{501}, wantCalls: 1, wantStatus: 501},
		{name: "exhausted", method: http.MethodGet, statuses: []int{500}, wantCalls: 3, wantStatus: 500, wantErr: true},
		{name: "put is idempotent", method: http.MethodPut, statuses: []int{502, 204}, wantCalls: 2, wantStatus: 204},
		{name: "post sent once", method: http.MethodPost, statuses: []int{503}, wantCalls: 1, wantStatus: 503, wantErr: true},
		{name: "patch sent once", method: http.MethodPatch, statuses: []int{503}, wantCalls: 1, wantStatus: 503, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := &scripted{statuses: tt.statuses}
			ts := httptest.NewServer(srv)
			t.Cleanup(ts.Close)
			c := httpclient.New(remoteConfig(ts.URL), "sitesmith-api", nil, nil)

			resp, err := send(t, c, context.Background(), tt.method, ts.URL+"/api/v1/projects", nil)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Do() error = %v, wantErr %v", err, tt.wantErr)
			}
			if resp == nil {
				t.Fatal("Do() resp = nil, want the last response")
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := srv.calls.Load(); got != tt.wantCalls {
				t.Errorf("server calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestDo_ReplaysBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body func() io.Reader
	}{
		{name: "in-memory reader", body: func() io.Reader { return strings.NewReader(`{"name":"demo"}`) }},
		{name: "opaque reader", body: func() io.Reader { return io.NopCloser(strings.NewReader(`{"name":"demo"}`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := &scripted{statuses: []int{503, 200}}
			ts := httptest.NewServer(srv)
			t.Cleanup(ts.Close)
			c := httpclient.New(remoteConfig(ts.URL), "sitesmith-api", nil, nil)

			if _, err := send(t, c, context.Background(), http.MethodPut, ts.URL+"/x", tt.body()); err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			srv.mu.Lock()
			defer srv.mu.Unlock()
			if len(srv.bodies) != 2 || srv.bodies[0] != srv.bodies[1] {
				t.Errorf("bodies = %q, want the same body twice", srv.bodies)
			}
		})
	}
}

func TestDo_HonorsRetryAfter(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	c := httpclient.New(remoteConfig(ts.URL), "sitesmith-api", nil, nil)

	start := time.Now()
	if _, err := send(t, c, context.Background(), http.MethodGet, ts.URL, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("retried after %v, want at least the 1s Retry-After", elapsed)
	}
}

func TestDo_Headers(t *testing.T) {
	t.Parallel()

	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	c := httpclient.New(remoteConfig(ts.URL), "sitesmith-api", nil, nil)

	ctx := httpclient.WithCorrelationID(context.Background(), "run-7")
	if _, err := send(t, c, ctx, http.MethodGet, ts.URL, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if ua := got.Get("User-Agent"); ua != "sitectl" {
		t.Errorf("User-Agent = %q, want sitectl", ua)
	}
	if id := got.Get("X-Correlation-ID"); id != "run-7" {
		t.Errorf("X-Correlation-ID = %q, want run-7", id)
	}

	if _, err := send(t, c, context.Background(), http.MethodGet, ts.URL, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if id := got.Get("X-Correlation-ID"); id != "" {
		t.Errorf("X-Correlation-ID = %q without one in context", id)
	}
}

func TestDo_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := &scripted{statuses: []int{500}}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	cfg := remoteConfig(ts.URL)
	cfg.CircuitBreaker.MaxFailures = 1
	c := httpclient.New(cfg, "sitesmith-api", nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := send(t, c, ctx, http.MethodGet, ts.URL, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() error = %v, want context.Canceled", err)
	}
	if resp != nil {
		t.Errorf("resp = %v, want nil", resp.Status)
	}
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v; a canceled caller must not trip the breaker", err)
	}
}

func TestBreaker_Lifecycle(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	cfg := remoteConfig(ts.URL)
	cfg.Retry.MaxAttempts = 1
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.CircuitBreaker.Timeout = 100 * time.Millisecond
	c := httpclient.New(cfg, "sitesmith-api", nil, nil)
	ctx := context.Background()

	if err := c.HealthCheck(ctx); err != nil {
		t.Fatalf("fresh HealthCheck() = %v, want nil", err)
	}

	_, _ = send(t, c, ctx, http.MethodGet, ts.URL, nil)
	if err := c.HealthCheck(ctx); err == nil || !strings.Contains(err.Error(), "failing") {
		t.Fatalf("HealthCheck() after trip = %v, want failing", err)
	}

	before := calls.Load()
	if _, err := send(t, c, ctx, http.MethodGet, ts.URL, nil); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Do() while open = %v, want ErrOpenState", err)
	}
	if calls.Load() != before {
		t.Error("server reached while breaker open")
	}

	time.Sleep(150 * time.Millisecond)
	if err := c.HealthCheck(ctx); err == nil || !strings.Contains(err.Error(), "degraded") {
		t.Fatalf("HealthCheck() after timeout = %v, want degraded", err)
	}

	healthy.Store(true)
	resp, err := send(t, c, ctx, http.MethodGet, ts.URL, nil)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("probe = %v, %v; want 200", resp, err)
	}
	if err := c.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() after recovery = %v, want nil", err)
	}
}

func TestClient_Accessors(t *testing.T) {
	t.Parallel()

	c := httpclient.New(remoteConfig("http://sites.internal:8080/"), "sitesmith-api", nil, nil)
	if got := c.BaseURL(); got != "http://sites.internal:8080" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
	if got := c.Name(); got != "sitesmith-api" {
		t.Errorf("Name() = %q, want sitesmith-api", got)
	}
}

func TestDo_RecordsMetrics(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(&scripted{statuses: []int{200, 500}})
	t.Cleanup(ts.Close)

	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	if err != nil {
		t.Fatalf("NewMetrics error = %v", err)
	}

	cfg := remoteConfig(ts.URL)
	cfg.Retry.MaxAttempts = 1
	cfg.CircuitBreaker.MaxFailures = 1
	c := httpclient.New(cfg, "sitesmith-api", metrics, nil)
	ctx := context.Background()

	_, _ = send(t, c, ctx, http.MethodGet, ts.URL, nil) // 200
	_, _ = send(t, c, ctx, http.MethodGet, ts.URL, nil) // 500, trips
	_, _ = send(t, c, ctx, http.MethodGet, ts.URL, nil) // rejected

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect error = %v", err)
	}

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http.client.request.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("http.client.request.total data = %T", m.Data)
			}
			for _, dp := range sum.DataPoints {
				result, _ := dp.Attributes.Value(telemetry.AttrResult)
				got[result.AsString()] += dp.Value
			}
		}
	}

	want := map[string]int64{"success": 1, "error": 1, "circuit_open": 1}
	for result, n := range want {
		if got[result] != n {
			t.Errorf("result %q count = %d, want %d (all: %v)", result, got[result], n, got)
		}
	}
}
