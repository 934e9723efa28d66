// Package services holds the budgeting use cases: owner-checked CRUD over
// expenses and goals, and the read-only analytics derived from them.
package services

import (
	"context"
	"log/slog"
	"time"

	"budgetbloom/internal/amqp"
	"budgetbloom/internal/core"
)

// ExpenseStore persists expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) error
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	ListExpenses(ctx context.Context, q core.ExpenseQuery) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) error
	DeleteExpense(ctx context.Context, userID, id string) error
}

// GoalStore persists one goal per owner and period.
type GoalStore interface {
	CreateGoal(ctx context.Context, g core.Goal) error
	GetGoal(ctx context.Context, userID string, p core.Period) (core.Goal, error)
	UpdateGoalAmount(ctx context.Context, userID string, p core.Period, amount core.Money, updatedAt time.Time) (core.Goal, error)
}

// SpendingReader runs the aggregation queries.
type SpendingReader interface {
	SumSpending(ctx context.Context, userID string, rng core.DateRange) (core.Money, error)
	CategoryTotals(ctx context.Context, userID string, rng core.DateRange) ([]core.CategoryTotal, error)
	ListExpenses(ctx context.Context, q core.ExpenseQuery) ([]core.Expense, error)
}

// EventPublisher announces successful writes. *amqp.Client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev amqp.Event) error
}

// Invalidator drops an owner's cached analytics.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string) error
}

// Clock supplies the current time in the budget's time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock reads the wall clock in loc (time.Local when nil).
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Option configures the services.
type Option func(*deps)

type deps struct {
	clock       Clock
	publisher   EventPublisher
	invalidator Invalidator
}

func newDeps(opts []Option) deps {
	d := deps{clock: SystemClock(nil)}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func WithClock(c Clock) Option {
	return func(d *deps) { d.clock = c }
}

// WithPublisher enables event publishing. A nil publisher disables it.
func WithPublisher(p EventPublisher) Option {
	return func(d *deps) { d.publisher = p }
}

func WithInvalidator(i Invalidator) Option {
	return func(d *deps) { d.invalidator = i }
}

// afterWrite publishes ev and drops the owner's cached analytics. Neither
// failure is returned: the write has already succeeded.
func (d deps) afterWrite(ctx context.Context, ev amqp.Event) {
	if d.invalidator != nil {
		if err := d.invalidator.InvalidateUser(ctx, ev.UserID); err != nil {
			slog.WarnContext(ctx, "Failed to invalidate analytics cache",
				"user_id", ev.UserID, "error", err)
		}
	}

	if d.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping event", "type", ev.Type)
		return
	}
	ev.Timestamp = d.clock.now().UTC()
	if err := d.publisher.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			"type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}
