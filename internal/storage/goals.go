package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetbloom/internal/core"
)

const goalColumns = `id, user_id, goal_amount_cents, month, year, created_at, updated_at`

// CreateGoal inserts a goal. A second goal for the same owner and period
// violates idx_goals_user_period and is reported as a ConflictError.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.GoalAmount.Cents, g.Month, g.Year, toMillis(g.CreatedAt), toMillis(g.UpdatedAt))
	if isUniqueViolation(err) {
		return &core.ConflictError{Resource: "goal", Message: "a goal already exists for this period"}
	}
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved to SQLite",
		"id", g.ID,
		"user_id", g.UserID,
		"month", g.Month,
		"year", g.Year)
	return nil
}

// GetGoal returns the owner's goal for p.
func (r *SQLiteRepository) GetGoal(ctx context.Context, userID string, p core.Period) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? AND month = ? AND year = ?`,
		userID, p.Month, p.Year)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, &core.NotFoundError{Resource: "goal"}
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// UpdateGoalAmount changes only the amount and updated_at of an existing goal.
func (r *SQLiteRepository) UpdateGoalAmount(ctx context.Context, userID string, p core.Period, amount core.Money, updatedAt time.Time) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE goals SET goal_amount_cents = ?, updated_at = ?
		 WHERE user_id = ? AND month = ? AND year = ?
		 RETURNING `+goalColumns,
		amount.Cents, toMillis(updatedAt), userID, p.Month, p.Year)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, &core.NotFoundError{Resource: "goal"}
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal updated in SQLite", "id", g.ID, "user_id", userID)
	return g, nil
}

func scanGoal(s scanner) (core.Goal, error) {
	var (
		g                    core.Goal
		createdAt, updatedAt int64
	)
	if err := s.Scan(&g.ID, &g.UserID, &g.GoalAmount.Cents, &g.Month, &g.Year, &createdAt, &updatedAt); err != nil {
		return core.Goal{}, err
	}
	g.CreatedAt = fromMillis(createdAt)
	g.UpdatedAt = fromMillis(updatedAt)
	return g, nil
}
