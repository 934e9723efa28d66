package http

import (
	"net/url"
	"testing"
	"time"

	"budgetbloom/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoalLookup(t *testing.T) {
	lookup := ParseGoalLookup(url.Values{"month": {"4"}, "year": {"2025"}})
	require.NotNil(t, lookup.Month)
	require.NotNil(t, lookup.Year)
	assert.Equal(t, 4, *lookup.Month)
	assert.Equal(t, 2025, *lookup.Year)

	lookup = ParseGoalLookup(url.Values{"month": {"may"}})
	assert.Nil(t, lookup.Month)
	assert.Nil(t, lookup.Year)
}

func TestParseExpenseFilter(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skip("tzdata not available")
	}

	f, err := ParseExpenseFilter(url.Values{
		"category":  {"Food"},
		"dateRange": {"custom"},
		"startDate": {"2026-10-01"},
		"endDate":   {"2026-10-31"},
		"sortBy":    {"highest"},
	}, rome)
	require.NoError(t, err)
	assert.Equal(t, "Food", f.Category)
	assert.Equal(t, core.RangeCustom, f.DateRange)
	assert.Equal(t, core.SortHighest, f.SortBy)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, rome), f.StartDate)

	// Dates are ignored unless the range is custom.
	f, err = ParseExpenseFilter(url.Values{"dateRange": {"last7days"}, "startDate": {"junk"}}, rome)
	require.NoError(t, err)
	assert.True(t, f.StartDate.IsZero())

	_, err = ParseExpenseFilter(url.Values{"dateRange": {"custom"}, "startDate": {"01/10/2026"}}, rome)
	assert.True(t, core.IsValidation(err))
}

func TestUpdateExpenseRequestRequiresEveryField(t *testing.T) {
	amount := core.Money{Cents: 500}
	category, note, date := "Food", "", "2026-10-02"

	full := UpdateExpenseRequest{Amount: &amount, Category: &category, Note: &note, Date: &date}
	cmd, err := full.Command(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), cmd.Date)
	assert.Equal(t, core.CategoryFood, cmd.Category)

	for _, missing := range []string{"amount", "category", "note", "date"} {
		req := full
		switch missing {
		case "amount":
			req.Amount = nil
		case "category":
			req.Category = nil
		case "note":
			req.Note = nil
		case "date":
			req.Date = nil
		}
		_, err := req.Command(time.UTC)
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr, missing)
		assert.Equal(t, missing, verr.Field)
	}
}
