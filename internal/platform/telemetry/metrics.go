package telemetry

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded by the HTTP server, the remote
// client and the transaction coordinator.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter

	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter

	TxnExecuteDuration metric.Float64Histogram
	TxnExecuteTotal    metric.Int64Counter
	TxnRollbackTotal   metric.Int64Counter
}

// NewMetrics registers every instrument on mp under ScopeName.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(ScopeName)
	var errs []error

	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return h
	}
	count := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return c
	}

	m := &Metrics{
		ServerRequestDuration: seconds("http.server.request.duration", "Duration of incoming HTTP requests"),
		ServerRequestTotal:    count("http.server.request.total", "Incoming HTTP requests", "{request}"),

		ClientRequestDuration: seconds("http.client.request.duration", "Duration of requests to a remote sitesmith server"),
		ClientRequestTotal:    count("http.client.request.total", "Requests to a remote sitesmith server", "{request}"),

		TxnExecuteDuration: seconds("txn.execute.duration", "Duration of file transactions, including rollback"),
		TxnExecuteTotal:    count("txn.execute.total", "File transactions by final state", "{transaction}"),
		TxnRollbackTotal:   count("txn.rollback.total", "Compensating actions run", "{step}"),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}
