package services

import (
	"time"

	"budgetbloom/internal/core"
)

// CreateExpenseCommand is a parsed create request. A nil Date means now.
type CreateExpenseCommand struct {
	Amount   core.Money
	Category core.Category
	Note     string
	Date     *time.Time
}

// UpdateExpenseCommand replaces all four mutable fields of an expense.
type UpdateExpenseCommand struct {
	Amount   core.Money
	Category core.Category
	Note     string
	Date     time.Time
}

// SetGoalCommand creates the goal for a period.
type SetGoalCommand struct {
	GoalAmount core.Money
	Period     core.Period
}

// UpdateGoalCommand changes the amount of an existing goal.
type UpdateGoalCommand struct {
	GoalAmount core.Money
	Period     core.Period
}

// GoalLookup selects a period. Nil fields default to the current month or year.
type GoalLookup struct {
	Month *int
	Year  *int
}
