package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"budgetbloom/internal/core"
)

const expenseColumns = `id, user_id, amount_cents, category, note, date, created_at`

// CreateExpense inserts a new expense. The caller assigns ID and CreatedAt.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Amount.Cents, string(e.Category), e.Note, toMillis(e.Date), toMillis(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"user_id", e.UserID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

// GetExpense loads an expense by id regardless of owner.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, &core.NotFoundError{Resource: "expense", ID: id}
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns the owner's expenses matching q.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, q core.ExpenseQuery) ([]core.Expense, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{q.UserID}
	)
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(q.Category))
	}
	if q.Range != nil {
		where = append(where, "date >= ?", "date < ?")
		args = append(args, toMillis(q.Range.From), toMillis(q.Range.To))
	}

	order := "created_at DESC, id"
	if q.Sort == core.SortHighest {
		order = "amount_cents DESC, created_at DESC, id"
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + order

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense overwrites the mutable fields of an owner's expense.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, category = ?, note = ?, date = ?
		 WHERE id = ? AND user_id = ?`,
		e.Amount.Cents, string(e.Category), e.Note, toMillis(e.Date), e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if err := expectOneRow(res, "expense", e.ID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense updated in SQLite", "id", e.ID, "user_id", e.UserID)
	return nil
}

// DeleteExpense removes an owner's expense.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if err := expectOneRow(res, "expense", id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id, "user_id", userID)
	return nil
}

// SumSpending totals the owner's expenses dated inside rng.
func (r *SQLiteRepository) SumSpending(ctx context.Context, userID string, rng core.DateRange) (core.Money, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
		 WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, toMillis(rng.From), toMillis(rng.To)).Scan(&total)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum spending: %w", err)
	}
	return core.Money{Cents: total}, nil
}

// CategoryTotals groups the owner's spending inside rng by category.
// Categories without expenses are absent.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID string, rng core.DateRange) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) FROM expenses
		 WHERE user_id = ? AND date >= ? AND date < ?
		 GROUP BY category`,
		userID, toMillis(rng.From), toMillis(rng.To))
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	totals := []core.CategoryTotal{}
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, core.CategoryTotal{Category: core.Category(category), Total: core.Money{Cents: cents}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	core.SortCategoryTotals(totals)
	return totals, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e               core.Expense
		category        string
		date, createdAt int64
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &category, &e.Note, &date, &createdAt); err != nil {
		return core.Expense{}, err
	}
	e.Category = core.Category(category)
	e.Date = fromMillis(date)
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func expectOneRow(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &core.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
