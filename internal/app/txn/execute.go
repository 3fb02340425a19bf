package txn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
	"github.com/jsamuelsen11/sitesmith/internal/platform/logging"
	"github.com/jsamuelsen11/sitesmith/internal/platform/telemetry"
)

// Execute runs all steps in insertion order. If a step fails, previously
// completed steps are compensated in reverse order. A compensation failure
// is logged and recorded in Result.RollbackErrors; the remaining
// compensations still run.
//
// Once started, a transaction runs to commit or to the end of its rollback
// even if ctx is canceled: steps receive a context detached from ctx's
// cancellation. Cancellation observed between steps is treated as a step
// failure and triggers rollback.
//
// After every step succeeds, Commit is called on steps implementing
// domain.Committer (for example to delete backups). Commit failures are
// logged only; the transaction is already committed.
//
// Calling Execute a second time returns a failed Result wrapping
// ErrAlreadyExecuted without running anything.
func (t *Transaction) Execute(ctx context.Context) Result {
	t.mu.Lock()
	if t.state != StateNotStarted {
		state := t.state
		t.mu.Unlock()
		return Result{OperationResult: domain.Failed(ErrAlreadyExecuted), ID: t.id, State: state}
	}
	t.state = StateRunning
	// Once running, stage() rejects appends, so the snapshot is stable.
	items := t.items
	t.mu.Unlock()

	runCtx, span := t.tracer.Start(context.WithoutCancel(ctx), "txn."+t.name,
		trace.WithAttributes(
			attribute.String("txn.id", t.id),
			attribute.Int("txn.steps", len(items)),
		),
	)
	defer span.End()

	logger := logging.FromContext(runCtx).With(
		slog.String("txn_id", t.id),
		slog.String("txn", t.name),
	)
	runCtx = logging.WithLogger(runCtx, logger)

	start := time.Now()
	res := t.run(ctx, runCtx, items, logger)
	res.ID = t.id
	t.setState(res.State)

	span.SetAttributes(telemetry.AttrTxnState.String(res.State.String()))
	if !res.Success {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.State.String())
	}
	t.record(runCtx, start, res)

	return res
}

// run executes items. callerCtx is only consulted for cancellation between
// steps; runCtx is passed to the steps themselves.
func (t *Transaction) run(callerCtx, runCtx context.Context, items []actionItem, logger *slog.Logger) Result {
	for i, item := range items {
		err := callerCtx.Err()
		if err != nil {
			err = fmt.Errorf("canceled before step: %w", err)
		} else {
			logger.InfoContext(runCtx, "executing step",
				slog.String("operation", "Transaction.Execute"),
				slog.Int("step", i+1),
				slog.Int("total", len(items)),
				slog.String("action", item.description()),
			)
			err = t.executeStep(runCtx, i, item)
		}
		if err == nil {
			continue
		}

		logger.ErrorContext(runCtx, "step failed, initiating rollback",
			slog.String("operation", "Transaction.Execute"),
			slog.Int("failed_step", i+1),
			slog.String("action", item.description()),
			slog.Any("error", err),
		)

		t.setState(StateRollingBack)
		rolled, rbErrs := item.abort(runCtx)
		n, errs := rollbackItems(runCtx, items, i-1, logger)
		rolled += n
		rbErrs = append(rbErrs, errs...)

		state := StateRolledBack
		if len(rbErrs) > 0 {
			state = StatePartiallyRolledBack
			logger.ErrorContext(runCtx, "rollback incomplete",
				slog.String("operation", "Transaction.Execute"),
				slog.Int("failed_compensations", len(rbErrs)),
				logging.RequiresAttention(),
			)
		}

		return Result{
			OperationResult: domain.OperationResult{
				Err:               fmt.Errorf("executing %s: %w", item.description(), err),
				RollbackPerformed: rolled > 0,
				TemporaryPaths:    collectTemporaryPaths(items[:i+1]),
			},
			State:          state,
			FailedStep:     item.description(),
			RollbackErrors: rbErrs,
		}
	}

	commitItems(runCtx, items, logger)

	return Result{
		OperationResult: domain.OperationResult{
			Success:        true,
			TemporaryPaths: collectTemporaryPaths(items),
		},
		State: StateCommitted,
	}
}

func (t *Transaction) executeStep(ctx context.Context, i int, item actionItem) error {
	ctx, span := t.tracer.Start(ctx, "txn.step",
		trace.WithAttributes(
			attribute.Int("txn.step", i+1),
			attribute.String("txn.action", item.description()),
		),
	)
	defer span.End()

	err := item.execute(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "step failed")
	}
	return err
}

// rollbackItems compensates items 0..upTo (inclusive) in reverse order and
// returns how many compensations ran and which failed. Failures are logged
// at ERROR level and do not stop the rollback of remaining items.
func rollbackItems(ctx context.Context, items []actionItem, upTo int, logger *slog.Logger) (int, []error) {
	var errs []error
	rolled := 0
	for i := upTo; i >= 0; i-- {
		item := items[i]

		logger.InfoContext(ctx, "rolling back step",
			slog.String("operation", "Transaction.Execute"),
			slog.Int("step", i+1),
			slog.String("action", item.description()),
		)

		rolled++
		if err := item.rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed",
				slog.String("operation", "Transaction.Execute"),
				slog.Int("step", i+1),
				slog.String("action", item.description()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("rolling back %s: %w", item.description(), err))
		}
	}
	return rolled, errs
}

func commitItems(ctx context.Context, items []actionItem, logger *slog.Logger) {
	for i, item := range items {
		if err := item.commit(ctx); err != nil {
			logger.WarnContext(ctx, "post-commit cleanup failed",
				slog.String("operation", "Transaction.Execute"),
				slog.Int("step", i+1),
				slog.String("action", item.description()),
				slog.Any("error", err),
			)
		}
	}
}

func collectTemporaryPaths(items []actionItem) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.temporaryPaths()...)
	}
	return out
}

func (t *Transaction) record(ctx context.Context, start time.Time, res Result) {
	if t.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrTxnName.String(t.name),
		telemetry.AttrTxnState.String(res.State.String()),
	)
	t.metrics.TxnExecuteTotal.Add(ctx, 1, attrs)
	t.metrics.TxnExecuteDuration.Record(ctx, time.Since(start).Seconds(), attrs)

	if res.RollbackPerformed {
		result := "ok"
		if len(res.RollbackErrors) > 0 {
			result = "failed"
		}
		t.metrics.TxnRollbackTotal.Add(ctx, 1, metric.WithAttributes(
			telemetry.AttrTxnName.String(t.name),
			telemetry.AttrResult.String(result),
		))
	}
}
