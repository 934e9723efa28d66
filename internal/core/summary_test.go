package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	p := ComputeProgress(Money{Cents: 10000}, Money{Cents: 4500})

	assert.Equal(t, Money{Cents: 10000}, p.GoalAmount)
	assert.Equal(t, Money{Cents: 4500}, p.CurrentSpending)
	assert.Equal(t, Money{Cents: 5500}, p.RemainingToGoal)
	assert.InDelta(t, 45.0, p.ProgressPercentage, 1e-9)
	assert.False(t, p.OverBudget())
}

func TestComputeProgress_Overspent(t *testing.T) {
	p := ComputeProgress(Money{Cents: 5000}, Money{Cents: 7500})

	assert.Equal(t, Money{Cents: -2500}, p.RemainingToGoal)
	assert.InDelta(t, 150.0, p.ProgressPercentage, 1e-9)
	assert.True(t, p.OverBudget())
}

func TestComputeProgress_ZeroGoal(t *testing.T) {
	p := ComputeProgress(Money{}, Money{Cents: 1200})
	assert.Equal(t, 0.0, p.ProgressPercentage)

	p = ComputeProgress(Money{}, Money{})
	assert.Equal(t, 0.0, p.ProgressPercentage)
	assert.False(t, p.OverBudget())
}

func TestSortCategoryTotals(t *testing.T) {
	totals := []CategoryTotal{
		{Category: CategoryTransport, Total: Money{Cents: 1000}},
		{Category: CategoryFood, Total: Money{Cents: 3500}},
		{Category: CategoryHealth, Total: Money{Cents: 1000}},
	}
	SortCategoryTotals(totals)

	assert.Equal(t, []Category{CategoryFood, CategoryHealth, CategoryTransport},
		[]Category{totals[0].Category, totals[1].Category, totals[2].Category})
	assert.Equal(t, Money{Cents: 5500}, SumCategoryTotals(totals))
}
