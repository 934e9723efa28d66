package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"budgetbloom/internal/cache"
	"budgetbloom/internal/core"

	"golang.org/x/sync/errgroup"
)

// SpendingWindowDays is the length of the daily spending series.
const SpendingWindowDays = 30

const cachePrefix = "analytics:"

// AnalyticsService computes the read-only spending views of one owner.
type AnalyticsService struct {
	spending SpendingReader
	goals    GoalStore
	cache    cache.Store
	clock    Clock
}

// NewAnalyticsService builds the service. store may be nil to disable caching.
func NewAnalyticsService(spending SpendingReader, goals GoalStore, store cache.Store, clock Clock) *AnalyticsService {
	return &AnalyticsService{spending: spending, goals: goals, cache: store, clock: clock}
}

// CategorySpending totals the current month by category. Categories without
// expenses are left out.
func (s *AnalyticsService) CategorySpending(ctx context.Context, owner string) ([]core.CategoryTotal, error) {
	now := s.clock.now()
	return cached(ctx, s, s.key(owner, "category", now), func() ([]core.CategoryTotal, error) {
		totals, err := s.spending.CategoryTotals(ctx, owner, core.CurrentMonth(now))
		if err != nil {
			return nil, core.WrapStore("category totals", err)
		}
		return totals, nil
	})
}

// SpendingOverTime totals each day of the trailing window that has expenses,
// oldest day first.
func (s *AnalyticsService) SpendingOverTime(ctx context.Context, owner string) ([]core.DailyTotal, error) {
	now := s.clock.now()
	return cached(ctx, s, s.key(owner, "daily", now), func() ([]core.DailyTotal, error) {
		rng := core.TrailingDays(now, SpendingWindowDays)
		expenses, err := s.spending.ListExpenses(ctx, core.ExpenseQuery{UserID: owner, Range: &rng})
		if err != nil {
			return nil, core.WrapStore("list expenses", err)
		}
		return dailyTotals(expenses, now.Location()), nil
	})
}

// CurrentMonthProgress compares this month's spending with this month's goal.
func (s *AnalyticsService) CurrentMonthProgress(ctx context.Context, owner string) (core.Progress, error) {
	now := s.clock.now()
	return cached(ctx, s, s.key(owner, "progress", now), func() (core.Progress, error) {
		return s.progress(ctx, owner, now)
	})
}

func (s *AnalyticsService) progress(ctx context.Context, owner string, now time.Time) (core.Progress, error) {
	var (
		goal     core.Goal
		spending core.Money
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goal, err = s.goals.GetGoal(gctx, owner, core.PeriodOf(now))
		return err
	})
	g.Go(func() error {
		var err error
		spending, err = s.spending.SumSpending(gctx, owner, core.CurrentMonth(now))
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Progress{}, core.WrapStore("current month progress", err)
	}
	return core.ComputeProgress(goal.GoalAmount, spending), nil
}

// InvalidateUser drops every cached view of owner.
func (s *AnalyticsService) InvalidateUser(ctx context.Context, owner string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, cachePrefix+owner+":")
}

// key includes the day so cached "current" views roll over at midnight.
func (s *AnalyticsService) key(owner, view string, now time.Time) string {
	return cachePrefix + owner + ":" + view + ":" + core.DayKey(now)
}

func cached[T any](ctx context.Context, s *AnalyticsService, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		if b, ok, err := s.cache.Get(ctx, key); err != nil {
			slog.WarnContext(ctx, "Analytics cache read failed", "cache_key", key, "error", err)
		} else if ok {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return v, nil
			}
		}
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	if s.cache != nil {
		if b, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, key, b); err != nil {
				slog.WarnContext(ctx, "Analytics cache write failed", "cache_key", key, "error", err)
			}
		}
	}
	return v, nil
}

func dailyTotals(expenses []core.Expense, loc *time.Location) []core.DailyTotal {
	byDay := make(map[string]core.Money)
	for _, e := range expenses {
		day := core.DayKey(e.Date.In(loc))
		byDay[day] = byDay[day].Add(e.Amount)
	}

	out := make([]core.DailyTotal, 0, len(byDay))
	for day, total := range byDay {
		out = append(out, core.DailyTotal{Date: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
