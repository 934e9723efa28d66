// Package worker consumes budget events: it drops stale analytics, warns
// when an owner's spending crosses the monthly goal and mirrors new
// expenses to a spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"budgetbloom/internal/amqp"
	"budgetbloom/internal/cache"
	"budgetbloom/internal/core"
	"budgetbloom/internal/log"
	"budgetbloom/internal/sheets"

	"golang.org/x/sync/errgroup"
)

// Analytics is the slice of the analytics service the worker needs.
type Analytics interface {
	CurrentMonthProgress(ctx context.Context, owner string) (core.Progress, error)
	InvalidateUser(ctx context.Context, owner string) error
}

// ExpenseReader loads the record an event refers to.
type ExpenseReader interface {
	GetExpense(ctx context.Context, id string) (core.Expense, error)
}

// Consumer delivers events until ctx is cancelled. *amqp.Client implements it.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, *amqp.Event) error) error
}

const (
	mirroredIDsSize = 10000
	mirroredIDsTTL  = 24 * time.Hour
)

// Stats counts what the worker has done since start.
type Stats struct {
	Handled  int64
	Alerts   int64
	Mirrored int64
}

type AlertWorker struct {
	analytics Analytics
	expenses  ExpenseReader
	mirror    sheets.ExpenseWriter
	logger    *log.Logger

	mu   sync.Mutex
	over map[string]bool // owner -> over budget at last check

	// Expense ids already appended, so a redelivered create is not written twice.
	mirroredIDs cache.Cache[struct{}]

	handled  atomic.Int64
	alerts   atomic.Int64
	mirrored atomic.Int64
}

// NewAlertWorker builds a worker. mirror may be nil to skip spreadsheet sync.
func NewAlertWorker(analytics Analytics, expenses ExpenseReader, mirror sheets.ExpenseWriter, logger *log.Logger) *AlertWorker {
	return &AlertWorker{
		analytics: analytics,
		expenses:  expenses,
		mirror:    mirror,
		logger:    logger.WithComponent(log.ComponentWorker),
		over:      make(map[string]bool),

		mirroredIDs: cache.NewLRUCache[struct{}](mirroredIDsSize, mirroredIDsTTL),
	}
}

// HandleEvent reacts to one event. Only a failed spreadsheet append is
// returned, and so requeued; a failed progress check is logged and the next
// event for the owner checks again.
func (w *AlertWorker) HandleEvent(ctx context.Context, ev *amqp.Event) error {
	w.handled.Add(1)

	if err := w.analytics.InvalidateUser(ctx, ev.UserID); err != nil {
		w.logger.WarnContext(ctx, "Failed to invalidate analytics cache",
			log.NewFields().WithUser(ev.UserID).WithError(err).ToSlice()...)
	}

	// A plain group: a mirror failure must not cancel the progress check.
	var g errgroup.Group
	if ev.Type == amqp.EventExpenseCreated && w.mirror != nil {
		g.Go(func() error { return w.mirrorExpense(ctx, ev) })
	}
	g.Go(func() error {
		w.checkProgress(ctx, ev)
		return nil
	})
	return g.Wait()
}

// checkProgress warns once when the owner's spending reaches the goal and
// re-arms when it drops back below.
func (w *AlertWorker) checkProgress(ctx context.Context, ev *amqp.Event) {
	progress, err := w.analytics.CurrentMonthProgress(ctx, ev.UserID)
	if core.IsNotFound(err) {
		w.setOver(ev.UserID, false)
		return
	}
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to check monthly progress",
			log.NewFields().
				WithUser(ev.UserID).
				WithOperation(log.OpAggregate).
				WithError(err).
				ToSlice()...)
		return
	}

	over := progress.OverBudget()
	if !w.setOver(ev.UserID, over) || !over {
		return
	}

	w.alerts.Add(1)
	args := append(log.NewFields().WithUser(ev.UserID).ToSlice(),
		"event", ev.Type,
		"goal_cents", progress.GoalAmount.Cents,
		"spending_cents", progress.CurrentSpending.Cents,
		"progress_pct", progress.ProgressPercentage)
	w.logger.WarnContext(ctx, "Monthly spending reached the savings goal", args...)
}

// setOver records the owner's state and reports whether it changed.
func (w *AlertWorker) setOver(owner string, over bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.over[owner] == over {
		return false
	}
	if over {
		w.over[owner] = true
	} else {
		delete(w.over, owner)
	}
	return true
}

func (w *AlertWorker) mirrorExpense(ctx context.Context, ev *amqp.Event) error {
	if _, done := w.mirroredIDs.Get(ev.ExpenseID); done {
		w.logger.InfoContext(ctx, "Expense already mirrored, skipping",
			log.FieldUserID, ev.UserID,
			log.FieldExpenseID, ev.ExpenseID)
		return nil
	}

	expense, err := w.expenses.GetExpense(ctx, ev.ExpenseID)
	if core.IsNotFound(err) {
		// Deleted before we got to it.
		w.logger.InfoContext(ctx, "Expense gone before mirroring",
			log.FieldUserID, ev.UserID,
			log.FieldExpenseID, ev.ExpenseID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load expense %s: %w", ev.ExpenseID, err)
	}

	ref, err := w.mirror.Append(ctx, expense)
	if err != nil {
		return fmt.Errorf("append expense %s: %w", ev.ExpenseID, err)
	}
	w.mirroredIDs.Set(ev.ExpenseID, struct{}{})
	w.mirrored.Add(1)

	args := append(log.NewFields().
		WithUser(ev.UserID).
		WithExpense(expense.ID, string(expense.Category), expense.Amount.Cents).
		ToSlice(), "sheets_ref", ref)
	w.logger.InfoContext(ctx, "Mirrored expense to spreadsheet", args...)
	return nil
}

// Stats returns the counters.
func (w *AlertWorker) Stats() Stats {
	return Stats{
		Handled:  w.handled.Load(),
		Alerts:   w.alerts.Load(),
		Mirrored: w.mirrored.Load(),
	}
}

// Run consumes events and logs the counters every reportEvery until ctx is
// cancelled. Cancellation is a clean stop and returns nil.
func (w *AlertWorker) Run(ctx context.Context, consumer Consumer, reportEvery time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.Consume(gctx, w.HandleEvent)
	})

	if reportEvery > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(reportEvery)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					s := w.Stats()
					w.logger.InfoContext(gctx, "Worker stats",
						"handled", s.Handled,
						"alerts", s.Alerts,
						"mirrored", s.Mirrored)
				}
			}
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}
