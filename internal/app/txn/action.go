package txn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
)

// actionItem is the internal interface for executable items in the step
// list. Both single actions and action groups implement this interface.
type actionItem interface {
	execute(ctx context.Context) error
	rollback(ctx context.Context) error
	// abort compensates whatever part of a failed execute took effect and
	// reports how many compensations ran and which of them failed.
	abort(ctx context.Context) (int, []error)
	commit(ctx context.Context) error
	description() string
	temporaryPaths() []string
}

// singleAction wraps a domain.Action to satisfy the actionItem interface.
type singleAction struct {
	action domain.Action
}

func (s *singleAction) execute(ctx context.Context) error {
	return safeCall(func() error { return s.action.Execute(ctx) })
}

func (s *singleAction) rollback(ctx context.Context) error {
	return safeCall(func() error { return s.action.Rollback(ctx) })
}

// abort is a no-op: a failed action is not compensated.
func (s *singleAction) abort(context.Context) (int, []error) { return 0, nil }

func (s *singleAction) commit(ctx context.Context) error {
	c, ok := s.action.(domain.Committer)
	if !ok {
		return nil
	}
	return safeCall(func() error { return c.Commit(ctx) })
}

func (s *singleAction) description() string { return s.action.Description() }

func (s *singleAction) temporaryPaths() []string {
	if r, ok := s.action.(domain.TemporaryPathReporter); ok {
		return r.TemporaryPaths()
	}
	return nil
}

// funcAction adapts a pair of closures to domain.Action.
type funcAction struct {
	desc     string
	forward  func(ctx context.Context) error
	backward func(ctx context.Context) error
}

func (f *funcAction) Execute(ctx context.Context) error { return f.forward(ctx) }

func (f *funcAction) Rollback(ctx context.Context) error {
	if f.backward == nil {
		return nil
	}
	return f.backward(ctx)
}

func (f *funcAction) Description() string { return f.desc }

// actionGroup holds independent actions that execute in parallel. If any
// action fails, in-progress actions are canceled via context and the first
// error is returned. The members that completed stay recorded so the
// coordinator can compensate them through abort.
type actionGroup struct {
	actions   []domain.Action
	completed []domain.Action
}

func (g *actionGroup) execute(ctx context.Context) error {
	if len(g.actions) == 0 {
		return nil
	}

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		index int
		err   error
	}

	results := make(chan result, len(g.actions))

	for i, action := range g.actions {
		go func(idx int, a domain.Action) {
			results <- result{index: idx, err: safeCall(func() error { return a.Execute(groupCtx) })}
		}(i, action)
	}

	completedSet := make([]bool, len(g.actions))
	var firstErr error

	for range g.actions {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
		} else {
			completedSet[r.index] = true
		}
	}

	g.completed = nil
	for i, done := range completedSet {
		if done {
			g.completed = append(g.completed, g.actions[i])
		}
	}

	return firstErr
}

func (g *actionGroup) rollback(ctx context.Context) error {
	_, errs := g.rollbackCompleted(ctx)
	return errors.Join(errs...)
}

func (g *actionGroup) abort(ctx context.Context) (int, []error) {
	return g.rollbackCompleted(ctx)
}

// rollbackCompleted rolls back successfully completed actions in reverse
// insertion order. Failures are logged and collected; they do not stop the
// rollback of remaining actions.
func (g *actionGroup) rollbackCompleted(ctx context.Context) (int, []error) {
	logger := logging.FromContext(ctx)
	var errs []error
	rolled := len(g.completed)
	for i := len(g.completed) - 1; i >= 0; i-- {
		action := g.completed[i]
		if err := safeCall(func() error { return action.Rollback(ctx) }); err != nil {
			logger.ErrorContext(ctx, "rollback failed in action group",
				slog.String("operation", "actionGroup.rollback"),
				slog.String("action", action.Description()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("rolling back %s: %w", action.Description(), err))
		}
	}
	g.completed = nil
	return rolled, errs
}

func (g *actionGroup) commit(ctx context.Context) error {
	var errs []error
	for _, a := range g.actions {
		if c, ok := a.(domain.Committer); ok {
			if err := safeCall(func() error { return c.Commit(ctx) }); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (g *actionGroup) description() string {
	switch len(g.actions) {
	case 0:
		return "empty action group"
	case 1:
		return g.actions[0].Description()
	default:
		return fmt.Sprintf("action group (%d actions: %s, ...)", len(g.actions), g.actions[0].Description())
	}
}

func (g *actionGroup) temporaryPaths() []string {
	var out []string
	for _, a := range g.actions {
		if r, ok := a.(domain.TemporaryPathReporter); ok {
			out = append(out, r.TemporaryPaths()...)
		}
	}
	return out
}

// safeCall runs fn, converting a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStepPanicked, r)
		}
	}()
	return fn()
}

// AddAction appends a step. Returns ErrNilAction if action is nil, or
// ErrAlreadyExecuted if the Transaction has already run.
//
// AddAction is safe for concurrent use.
func (t *Transaction) AddAction(action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	return t.stage(&singleAction{action: action})
}

// AddOperation appends a step built from a forward function and its
// compensation. A nil rollback means the step has nothing to undo.
func (t *Transaction) AddOperation(description string, forward, rollback func(ctx context.Context) error) error {
	if forward == nil {
		return ErrNilAction
	}
	return t.AddAction(&funcAction{desc: description, forward: forward, backward: rollback})
}

// AddGroup appends a step whose actions run concurrently. The actions must
// touch disjoint paths. Returns ErrNilAction if any action is nil.
func (t *Transaction) AddGroup(actions ...domain.Action) error {
	for _, a := range actions {
		if a == nil {
			return ErrNilAction
		}
	}
	return t.stage(&actionGroup{actions: actions})
}
