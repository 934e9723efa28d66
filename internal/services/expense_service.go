package services

import (
	"context"
	"log/slog"

	"budgetbloom/internal/amqp"
	"budgetbloom/internal/core"

	"github.com/google/uuid"
)

// ExpenseService performs owner-checked expense CRUD.
type ExpenseService struct {
	store ExpenseStore
	deps
}

func NewExpenseService(store ExpenseStore, opts ...Option) *ExpenseService {
	return &ExpenseService{store: store, deps: newDeps(opts)}
}

// CreateExpense validates and stores a new expense owned by owner.
func (s *ExpenseService) CreateExpense(ctx context.Context, owner string, cmd CreateExpenseCommand) (core.Expense, error) {
	now := core.StoredTime(s.clock.now())
	e := core.Expense{
		ID:        uuid.NewString(),
		UserID:    owner,
		Amount:    cmd.Amount,
		Category:  cmd.Category,
		Note:      core.NormalizeNote(cmd.Note),
		Date:      now,
		CreatedAt: now,
	}
	if cmd.Date != nil {
		e.Date = core.StoredTime(*cmd.Date)
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, core.WrapStore("create expense", err)
	}

	s.afterWrite(ctx, expenseEvent(amqp.EventExpenseCreated, e, s.clock))
	return e, nil
}

// ListExpenses returns owner's expenses narrowed by filter.
func (s *ExpenseService) ListExpenses(ctx context.Context, owner string, filter core.ExpenseFilter) ([]core.Expense, error) {
	q, err := filter.Resolve(owner, s.clock.now())
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, q)
	if err != nil {
		return nil, core.WrapStore("list expenses", err)
	}
	return expenses, nil
}

// UpdateExpense overwrites amount, category, note and date of an expense
// owned by owner.
func (s *ExpenseService) UpdateExpense(ctx context.Context, owner, id string, cmd UpdateExpenseCommand) (core.Expense, error) {
	existing, err := s.owned(ctx, owner, id, "edit")
	if err != nil {
		return core.Expense{}, err
	}

	updated := existing
	updated.Amount = cmd.Amount
	updated.Category = cmd.Category
	updated.Note = core.NormalizeNote(cmd.Note)
	updated.Date = core.StoredTime(cmd.Date)
	if err := updated.Validate(); err != nil {
		return core.Expense{}, err
	}

	if err := s.store.UpdateExpense(ctx, updated); err != nil {
		return core.Expense{}, core.WrapStore("update expense", err)
	}

	s.afterWrite(ctx, expenseEvent(amqp.EventExpenseUpdated, updated, s.clock))
	return updated, nil
}

// DeleteExpense removes an expense owned by owner.
func (s *ExpenseService) DeleteExpense(ctx context.Context, owner, id string) error {
	existing, err := s.owned(ctx, owner, id, "delete")
	if err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, owner, id); err != nil {
		return core.WrapStore("delete expense", err)
	}

	s.afterWrite(ctx, expenseEvent(amqp.EventExpenseDeleted, existing, s.clock))
	return nil
}

func (s *ExpenseService) owned(ctx context.Context, owner, id, action string) (core.Expense, error) {
	if _, err := uuid.Parse(id); err != nil {
		return core.Expense{}, &core.NotFoundError{Resource: "expense", ID: id}
	}
	e, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return core.Expense{}, core.WrapStore("get expense", err)
	}
	if e.UserID != owner {
		slog.WarnContext(ctx, "Expense access denied",
			"expense_id", id, "user_id", owner, "action", action)
		return core.Expense{}, &core.ForbiddenError{Resource: "expense", ID: id, Action: action}
	}
	return e, nil
}

func expenseEvent(t amqp.EventType, e core.Expense, clock Clock) amqp.Event {
	local := e.Date.In(clock.now().Location())
	p := core.PeriodOf(local)
	return amqp.Event{
		Type:        t,
		UserID:      e.UserID,
		ExpenseID:   e.ID,
		AmountCents: e.Amount.Cents,
		Category:    string(e.Category),
		Date:        e.Date.UTC(),
		Month:       p.Month,
		Year:        p.Year,
	}
}
