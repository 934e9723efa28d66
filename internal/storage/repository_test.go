package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"budgetbloom/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
	now  time.Time
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "budget.db"))
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) addExpense(id, user string, cents int64, cat core.Category, date time.Time, createdAt time.Time) core.Expense {
	e := core.Expense{
		ID:        id,
		UserID:    user,
		Amount:    core.Money{Cents: cents},
		Category:  cat,
		Date:      date,
		CreatedAt: createdAt,
	}
	require.NoError(s.T(), s.repo.CreateExpense(s.ctx, e))
	return e
}

func (s *RepositoryTestSuite) TestCreateAndGetExpense() {
	want := s.addExpense("e1", "alice", 2050, core.CategoryFood, s.now, s.now)

	got, err := s.repo.GetExpense(s.ctx, "e1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), want.Amount, got.Amount)
	assert.Equal(s.T(), want.Category, got.Category)
	assert.True(s.T(), want.Date.Equal(got.Date))
	assert.Equal(s.T(), "alice", got.UserID)
}

func (s *RepositoryTestSuite) TestGetExpense_NotFound() {
	_, err := s.repo.GetExpense(s.ctx, "missing")
	assert.True(s.T(), core.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestListExpenses_OwnerOnlyNewestFirst() {
	s.addExpense("a1", "alice", 100, core.CategoryFood, s.now, s.now.Add(-2*time.Hour))
	s.addExpense("a2", "alice", 300, core.CategoryHealth, s.now, s.now.Add(-1*time.Hour))
	s.addExpense("b1", "bob", 999, core.CategoryFood, s.now, s.now)

	got, err := s.repo.ListExpenses(s.ctx, core.ExpenseQuery{UserID: "alice"})
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2)
	assert.Equal(s.T(), "a2", got[0].ID)
	assert.Equal(s.T(), "a1", got[1].ID)
	for _, e := range got {
		assert.Equal(s.T(), "alice", e.UserID)
	}
}

func (s *RepositoryTestSuite) TestListExpenses_FilterAndSort() {
	s.addExpense("a1", "alice", 100, core.CategoryFood, s.now, s.now)
	s.addExpense("a2", "alice", 900, core.CategoryFood, s.now.AddDate(0, 0, -40), s.now)
	s.addExpense("a3", "alice", 500, core.CategoryFood, s.now.AddDate(0, 0, -1), s.now)
	s.addExpense("a4", "alice", 700, core.CategoryShopping, s.now, s.now)

	rng := core.CurrentMonth(s.now)
	got, err := s.repo.ListExpenses(s.ctx, core.ExpenseQuery{
		UserID:   "alice",
		Category: core.CategoryFood,
		Range:    &rng,
		Sort:     core.SortHighest,
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), got, 2)
	assert.Equal(s.T(), "a3", got[0].ID)
	assert.Equal(s.T(), "a1", got[1].ID)
}

func (s *RepositoryTestSuite) TestListExpenses_EmptyIsNotNil() {
	got, err := s.repo.ListExpenses(s.ctx, core.ExpenseQuery{UserID: "nobody"})
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), got)
	assert.Empty(s.T(), got)
}

func (s *RepositoryTestSuite) TestUpdateExpense() {
	e := s.addExpense("e1", "alice", 100, core.CategoryFood, s.now, s.now)
	e.Amount = core.Money{Cents: 4200}
	e.Category = core.CategoryTransport
	e.Note = "taxi"

	require.NoError(s.T(), s.repo.UpdateExpense(s.ctx, e))

	got, err := s.repo.GetExpense(s.ctx, "e1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(4200), got.Amount.Cents)
	assert.Equal(s.T(), core.CategoryTransport, got.Category)
	assert.Equal(s.T(), "taxi", got.Note)
}

func (s *RepositoryTestSuite) TestUpdateAndDelete_WrongOwnerTouchesNothing() {
	e := s.addExpense("e1", "alice", 100, core.CategoryFood, s.now, s.now)

	e.UserID = "bob"
	e.Amount = core.Money{Cents: 1}
	assert.True(s.T(), core.IsNotFound(s.repo.UpdateExpense(s.ctx, e)))
	assert.True(s.T(), core.IsNotFound(s.repo.DeleteExpense(s.ctx, "bob", "e1")))

	got, err := s.repo.GetExpense(s.ctx, "e1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(100), got.Amount.Cents)
}

func (s *RepositoryTestSuite) TestDeleteExpense() {
	s.addExpense("e1", "alice", 100, core.CategoryFood, s.now, s.now)

	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, "alice", "e1"))
	_, err := s.repo.GetExpense(s.ctx, "e1")
	assert.True(s.T(), core.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestAggregates() {
	s.addExpense("a1", "alice", 2000, core.CategoryFood, s.now, s.now)
	s.addExpense("a2", "alice", 1500, core.CategoryFood, s.now.AddDate(0, 0, -5), s.now)
	s.addExpense("a3", "alice", 1000, core.CategoryTransport, s.now, s.now)
	s.addExpense("old", "alice", 9999, core.CategoryTransport, s.now.AddDate(0, -2, 0), s.now)
	s.addExpense("b1", "bob", 5000, core.CategoryFood, s.now, s.now)

	rng := core.CurrentMonth(s.now)

	total, err := s.repo.SumSpending(s.ctx, "alice", rng)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(4500), total.Cents)

	totals, err := s.repo.CategoryTotals(s.ctx, "alice", rng)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []core.CategoryTotal{
		{Category: core.CategoryFood, Total: core.Money{Cents: 3500}},
		{Category: core.CategoryTransport, Total: core.Money{Cents: 1000}},
	}, totals)

	none, err := s.repo.SumSpending(s.ctx, "carol", rng)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(0), none.Cents)
}

func (s *RepositoryTestSuite) goal(user string, cents int64, month, year int) core.Goal {
	return core.Goal{
		ID:         user + "-goal",
		UserID:     user,
		GoalAmount: core.Money{Cents: cents},
		Month:      month,
		Year:       year,
		CreatedAt:  s.now,
		UpdatedAt:  s.now,
	}
}

func (s *RepositoryTestSuite) TestGoal_CreateGetUpdate() {
	require.NoError(s.T(), s.repo.CreateGoal(s.ctx, s.goal("alice", 10000, 9, 2026)))

	got, err := s.repo.GetGoal(s.ctx, "alice", core.Period{Month: 9, Year: 2026})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(10000), got.GoalAmount.Cents)

	later := s.now.Add(time.Hour)
	updated, err := s.repo.UpdateGoalAmount(s.ctx, "alice", core.Period{Month: 9, Year: 2026}, core.Money{Cents: 15000}, later)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(15000), updated.GoalAmount.Cents)
	assert.True(s.T(), later.Equal(updated.UpdatedAt))
	assert.True(s.T(), got.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(s.T(), got.ID, updated.ID)
}

func (s *RepositoryTestSuite) TestGoal_NotFound() {
	_, err := s.repo.GetGoal(s.ctx, "alice", core.Period{Month: 0, Year: 2026})
	assert.True(s.T(), core.IsNotFound(err))

	_, err = s.repo.UpdateGoalAmount(s.ctx, "alice", core.Period{Month: 0, Year: 2026}, core.Money{Cents: 1}, s.now)
	assert.True(s.T(), core.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestGoal_DuplicatePeriodConflicts() {
	require.NoError(s.T(), s.repo.CreateGoal(s.ctx, s.goal("alice", 10000, 9, 2026)))

	dup := s.goal("alice", 20000, 9, 2026)
	dup.ID = "other"
	err := s.repo.CreateGoal(s.ctx, dup)
	assert.True(s.T(), core.IsConflict(err), "got %v", err)

	got, err := s.repo.GetGoal(s.ctx, "alice", core.Period{Month: 9, Year: 2026})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(10000), got.GoalAmount.Cents)

	// same period for another owner is fine
	bob := s.goal("bob", 500, 9, 2026)
	assert.NoError(s.T(), s.repo.CreateGoal(s.ctx, bob))
}

func (s *RepositoryTestSuite) TestGoal_ConcurrentCreateOnlyOneWins() {
	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, clash int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := s.goal("alice", int64(100+i), 3, 2026)
			g.ID = g.ID + string(rune('a'+i))
			err := s.repo.CreateGoal(s.ctx, g)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case core.IsConflict(err):
				clash++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(s.T(), 1, ok)
	assert.Equal(s.T(), n-1, clash)
}

func (s *RepositoryTestSuite) TestUsers() {
	u := core.User{ID: "u1", Email: "a@example.com", PasswordHash: "hash", CreatedAt: s.now}
	require.NoError(s.T(), s.repo.CreateUser(s.ctx, u))

	dup := u
	dup.ID = "u2"
	assert.True(s.T(), core.IsConflict(s.repo.CreateUser(s.ctx, dup)))

	got, err := s.repo.GetUserByEmail(s.ctx, "a@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "u1", got.ID)
	assert.Equal(s.T(), "hash", got.PasswordHash)

	_, err = s.repo.GetUser(s.ctx, "nope")
	assert.True(s.T(), core.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestPing() {
	assert.NoError(s.T(), s.repo.Ping(s.ctx))
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
