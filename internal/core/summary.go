package core

import (
	"math"
	"sort"
)

// CategoryTotal is the spending of one category over a period.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    Money    `json:"total"`
}

// DailyTotal is the spending of one calendar day.
type DailyTotal struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Total Money  `json:"total"`
}

// Progress compares the current month's spending to its goal.
type Progress struct {
	GoalAmount         Money   `json:"goalAmount"`
	CurrentSpending    Money   `json:"currentSpending"`
	RemainingToGoal    Money   `json:"remainingToGoal"`
	ProgressPercentage float64 `json:"progressPercentage"`
}

// ComputeProgress derives the progress figures. Remaining may be negative.
// A percentage that is not finite (zero goal) is reported as 0.
func ComputeProgress(goal, spending Money) Progress {
	pct := spending.Float() / goal.Float() * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	return Progress{
		GoalAmount:         goal,
		CurrentSpending:    spending,
		RemainingToGoal:    goal.Sub(spending),
		ProgressPercentage: pct,
	}
}

// OverBudget reports whether spending has reached the goal.
func (p Progress) OverBudget() bool {
	return p.GoalAmount.IsPositive() && p.CurrentSpending.Cents >= p.GoalAmount.Cents
}

// SortCategoryTotals orders by total descending, then by category name.
func SortCategoryTotals(totals []CategoryTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Total.Cents != totals[j].Total.Cents {
			return totals[i].Total.Cents > totals[j].Total.Cents
		}
		return totals[i].Category < totals[j].Category
	})
}

// SumCategoryTotals returns the sum of every category.
func SumCategoryTotals(totals []CategoryTotal) Money {
	var sum Money
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}
	return sum
}
