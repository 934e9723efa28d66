package sheets

import (
	"context"

	"budgetbloom/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseWriter mirrors a stored expense into an external spreadsheet.
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}
)
