package services

import (
	"context"
	"testing"
	"time"

	"budgetbloom/internal/cache"
	"budgetbloom/internal/core"
	"budgetbloom/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	repo      *storage.SQLiteRepository
	expenses  *ExpenseService
	goals     *GoalService
	analytics *AnalyticsService
}

func newAnalyticsFixture(t *testing.T, now time.Time, store cache.Store) analyticsFixture {
	repo := newTestRepo(t)
	clock := fixedClock(now)
	analytics := NewAnalyticsService(repo, repo, store, clock)
	return analyticsFixture{
		repo:      repo,
		analytics: analytics,
		expenses:  NewExpenseService(repo, WithClock(clock), WithInvalidator(analytics)),
		goals:     NewGoalService(repo, WithClock(clock), WithInvalidator(analytics)),
	}
}

func (f analyticsFixture) spend(t *testing.T, owner string, cents int64, cat core.Category, date time.Time) {
	t.Helper()
	_, err := f.expenses.CreateExpense(context.Background(), owner, CreateExpenseCommand{
		Amount: core.Money{Cents: cents}, Category: cat, Date: &date,
	})
	require.NoError(t, err)
}

func TestAnalytics_CategorySpendingAndProgress(t *testing.T) {
	ctx := context.Background()
	f := newAnalyticsFixture(t, testNow, nil)

	f.spend(t, "alice", 2000, core.CategoryFood, testNow.AddDate(0, 0, -3))
	f.spend(t, "alice", 1500, core.CategoryFood, testNow)
	f.spend(t, "alice", 1000, core.CategoryTransport, testNow.AddDate(0, 0, -18))
	f.spend(t, "alice", 7000, core.CategoryFood, testNow.AddDate(0, -1, 0))
	f.spend(t, "bob", 9900, core.CategoryFood, testNow)

	totals, err := f.analytics.CategorySpending(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryTotal{
		{Category: core.CategoryFood, Total: core.Money{Cents: 3500}},
		{Category: core.CategoryTransport, Total: core.Money{Cents: 1000}},
	}, totals)

	_, err = f.analytics.CurrentMonthProgress(ctx, "alice")
	assert.True(t, core.IsNotFound(err), "no goal yet: %v", err)

	_, err = f.goals.SetGoal(ctx, "alice", SetGoalCommand{GoalAmount: core.Money{Cents: 10000}, Period: core.PeriodOf(testNow)})
	require.NoError(t, err)

	p, err := f.analytics.CurrentMonthProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, core.Money{Cents: 10000}, p.GoalAmount)
	assert.Equal(t, core.Money{Cents: 4500}, p.CurrentSpending)
	assert.Equal(t, core.Money{Cents: 5500}, p.RemainingToGoal)
	assert.InDelta(t, 45.0, p.ProgressPercentage, 1e-9)
}

func TestAnalytics_ProgressWithoutSpending(t *testing.T) {
	ctx := context.Background()
	f := newAnalyticsFixture(t, testNow, nil)

	_, err := f.goals.SetGoal(ctx, "alice", SetGoalCommand{GoalAmount: core.Money{Cents: 5000}, Period: core.PeriodOf(testNow)})
	require.NoError(t, err)

	p, err := f.analytics.CurrentMonthProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.CurrentSpending.Cents)
	assert.Equal(t, int64(5000), p.RemainingToGoal.Cents)
	assert.Equal(t, 0.0, p.ProgressPercentage)
}

func TestAnalytics_ProgressWithCorruptedGoal(t *testing.T) {
	ctx := context.Background()
	f := newAnalyticsFixture(t, testNow, nil)

	_, err := f.goals.SetGoal(ctx, "alice", SetGoalCommand{GoalAmount: core.Money{Cents: 5000}, Period: core.PeriodOf(testNow)})
	require.NoError(t, err)
	f.spend(t, "alice", 1200, core.CategoryFood, testNow)

	_, err = f.repo.DB().ExecContext(ctx, `UPDATE goals SET goal_amount_cents = 0 WHERE user_id = ?`, "alice")
	require.NoError(t, err)

	p, err := f.analytics.CurrentMonthProgress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.ProgressPercentage)
	assert.Equal(t, int64(-1200), p.RemainingToGoal.Cents)
}

func TestAnalytics_SpendingOverTime(t *testing.T) {
	ctx := context.Background()
	f := newAnalyticsFixture(t, testNow, nil)

	f.spend(t, "alice", 500, core.CategoryFood, testNow.AddDate(0, 0, -29))
	f.spend(t, "alice", 300, core.CategoryOther, testNow)
	f.spend(t, "alice", 800, core.CategoryOther, testNow.AddDate(0, 0, -31))
	f.spend(t, "bob", 100, core.CategoryOther, testNow)

	series, err := f.analytics.SpendingOverTime(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []core.DailyTotal{
		{Date: "2026-09-20", Total: core.Money{Cents: 500}},
		{Date: "2026-10-19", Total: core.Money{Cents: 300}},
	}, series)
}

func TestAnalytics_SpendingOverTimeGroupsByDay(t *testing.T) {
	ctx := context.Background()
	f := newAnalyticsFixture(t, testNow, nil)

	f.spend(t, "alice", 100, core.CategoryFood, testNow.Add(-2*time.Hour))
	f.spend(t, "alice", 250, core.CategoryFood, testNow.Add(-1*time.Hour))
	f.spend(t, "alice", 50, core.CategoryFood, testNow.AddDate(0, 0, -1))

	series, err := f.analytics.SpendingOverTime(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "2026-10-18", series[0].Date)
	assert.Equal(t, int64(50), series[0].Total.Cents)
	assert.Equal(t, int64(350), series[1].Total.Cents)
}

func TestAnalytics_EmptyResults(t *testing.T) {
	ctx := context.Background()
	f := newAnalyticsFixture(t, testNow, nil)

	totals, err := f.analytics.CategorySpending(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, totals)

	series, err := f.analytics.SpendingOverTime(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestAnalytics_CacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(100, time.Hour)
	f := newAnalyticsFixture(t, testNow, store)

	f.spend(t, "alice", 1000, core.CategoryFood, testNow)
	first, err := f.analytics.CategorySpending(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, ok, err := store.Get(ctx, f.analytics.key("alice", "category", testNow))
	require.NoError(t, err)
	assert.True(t, ok, "result should be cached")

	// a direct store write bypasses invalidation, so the cached view is served
	_, err = f.repo.DB().ExecContext(ctx, `UPDATE expenses SET amount_cents = 1 WHERE user_id = ?`, "alice")
	require.NoError(t, err)
	cachedTotals, err := f.analytics.CategorySpending(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), cachedTotals[0].Total.Cents)

	f.spend(t, "alice", 500, core.CategoryHealth, testNow)
	fresh, err := f.analytics.CategorySpending(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryTotal{
		{Category: core.CategoryHealth, Total: core.Money{Cents: 500}},
		{Category: core.CategoryFood, Total: core.Money{Cents: 1}},
	}, fresh)
}
