package services

import (
	"context"

	"budgetbloom/internal/amqp"
	"budgetbloom/internal/core"

	"github.com/google/uuid"
)

// GoalService manages the one-per-month savings goals.
type GoalService struct {
	store GoalStore
	deps
}

func NewGoalService(store GoalStore, opts ...Option) *GoalService {
	return &GoalService{store: store, deps: newDeps(opts)}
}

// SetGoal creates the goal for cmd.Period. A goal that already exists for the
// period yields a ConflictError and is left untouched.
func (s *GoalService) SetGoal(ctx context.Context, owner string, cmd SetGoalCommand) (core.Goal, error) {
	now := core.StoredTime(s.clock.now())
	g := core.Goal{
		ID:         uuid.NewString(),
		UserID:     owner,
		GoalAmount: cmd.GoalAmount,
		Month:      cmd.Period.Month,
		Year:       cmd.Period.Year,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	if err := s.store.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, core.WrapStore("create goal", err)
	}

	s.afterWrite(ctx, goalEvent(amqp.EventGoalSet, g))
	return g, nil
}

// GetGoal returns owner's goal for the looked-up period.
func (s *GoalService) GetGoal(ctx context.Context, owner string, lookup GoalLookup) (core.Goal, error) {
	p := core.PeriodOf(s.clock.now())
	if lookup.Month != nil {
		p.Month = *lookup.Month
	}
	if lookup.Year != nil {
		p.Year = *lookup.Year
	}
	if err := p.Validate(); err != nil {
		return core.Goal{}, err
	}

	g, err := s.store.GetGoal(ctx, owner, p)
	if err != nil {
		return core.Goal{}, core.WrapStore("get goal", err)
	}
	return g, nil
}

// UpdateGoal changes the amount of an existing goal. It never creates one.
func (s *GoalService) UpdateGoal(ctx context.Context, owner string, cmd UpdateGoalCommand) (core.Goal, error) {
	if !cmd.GoalAmount.IsPositive() {
		return core.Goal{}, &core.ValidationError{Field: "goalAmount", Message: "goal amount must be at least 0.01", Err: core.ErrInvalidAmount}
	}
	if err := cmd.Period.Validate(); err != nil {
		return core.Goal{}, err
	}

	g, err := s.store.UpdateGoalAmount(ctx, owner, cmd.Period, cmd.GoalAmount, s.clock.now())
	if err != nil {
		return core.Goal{}, core.WrapStore("update goal", err)
	}

	s.afterWrite(ctx, goalEvent(amqp.EventGoalUpdated, g))
	return g, nil
}

func goalEvent(t amqp.EventType, g core.Goal) amqp.Event {
	return amqp.Event{
		Type:        t,
		UserID:      g.UserID,
		GoalID:      g.ID,
		AmountCents: g.GoalAmount.Cents,
		Month:       g.Month,
		Year:        g.Year,
	}
}
