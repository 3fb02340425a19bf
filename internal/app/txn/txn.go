// Package txn coordinates multi-step filesystem mutations as one unit.
//
// A Transaction holds an ordered list of steps, each a forward operation
// paired with the compensation that undoes it. Execute runs the steps in
// order; on the first failure it runs the compensations of every completed
// step in reverse order, continuing past compensation failures:
//
//	tx := txn.New("create_project", txn.WithMetrics(metrics))
//	_ = tx.AddAction(&atomicfs.CopyDirStep{...})
//	_ = tx.AddOperation("install dependencies", install, cleanup)
//
//	res := tx.Execute(ctx)
//	if !res.Success {
//	    // res.State is RolledBack or PartiallyRolledBack
//	}
//
// A Transaction executes at most once.
package txn

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/telemetry"
)

// ErrAlreadyExecuted is returned when a step is added to, or Execute is
// called on, a Transaction that has already run.
var ErrAlreadyExecuted = errors.New("txn: transaction already executed")

// ErrNilAction is returned when a nil action or forward function is added.
var ErrNilAction = errors.New("txn: nil action")

// ErrStepPanicked wraps a panic recovered from a step or compensation.
var ErrStepPanicked = errors.New("txn: step panicked")

// State is the lifecycle position of a Transaction.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateRollingBack
	StateCommitted
	StateRolledBack
	// StatePartiallyRolledBack means at least one compensation failed. The
	// paths touched by the transaction need operator attention.
	StatePartiallyRolledBack
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateRollingBack:
		return "rolling_back"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	case StatePartiallyRolledBack:
		return "partially_rolled_back"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack || s == StatePartiallyRolledBack
}

// Result is the outcome of Execute.
type Result struct {
	domain.OperationResult

	// ID identifies the transaction in logs and spans.
	ID string

	// State is the terminal state reached.
	State State

	// FailedStep is the description of the step whose forward operation
	// failed, or empty on success.
	FailedStep string

	// RollbackErrors holds one entry per compensation that failed.
	RollbackErrors []error
}

// Transaction is an ordered set of compensable steps.
//
// Steps may be added concurrently, but Execute must be called once.
type Transaction struct {
	id      string
	name    string
	metrics *telemetry.Metrics
	tracer  trace.Tracer

	mu    sync.Mutex
	items []actionItem
	state State
}

// Option configures a Transaction.
type Option func(*Transaction)

// WithMetrics records transaction counters and durations.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(t *Transaction) {
		t.metrics = m
	}
}

// WithTracer overrides the global tracer.
func WithTracer(tr trace.Tracer) Option {
	return func(t *Transaction) {
		t.tracer = tr
	}
}

// WithID sets the transaction ID instead of generating one.
func WithID(id string) Option {
	return func(t *Transaction) {
		t.id = id
	}
}

// New creates an empty Transaction. name labels logs, spans and metrics
// (e.g. "create_project").
func New(name string, opts ...Option) *Transaction {
	t := &Transaction{
		id:     uuid.NewString(),
		name:   name,
		tracer: otel.Tracer(telemetry.ScopeName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transaction) ID() string {
	return t.id
}

func (t *Transaction) Name() string {
	return t.name
}

// State returns the current lifecycle state.
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Len returns the number of staged steps.
func (t *Transaction) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

func (t *Transaction) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *Transaction) stage(item actionItem) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateNotStarted {
		return ErrAlreadyExecuted
	}
	t.items = append(t.items, item)
	return nil
}
