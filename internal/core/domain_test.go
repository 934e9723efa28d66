package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExpense() Expense {
	return Expense{
		UserID:   "u1",
		Amount:   Money{Cents: 2000},
		Category: CategoryFood,
		Date:     time.Date(2026, 10, 3, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("food")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = ParseCategory(CategoryAll)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestExpenseValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Expense)
		field  string
	}{
		{"valid", func(*Expense) {}, ""},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, "amount"},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -1} }, "amount"},
		{"unknown category", func(e *Expense) { e.Category = "Rent" }, "category"},
		{"missing owner", func(e *Expense) { e.UserID = "" }, "userId"},
		{"note too long", func(e *Expense) { e.Note = strings.Repeat("x", MaxNoteLength+1) }, "note"},
		{"zero date", func(e *Expense) { e.Date = time.Time{} }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			err := e.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestGoalValidate(t *testing.T) {
	g := Goal{UserID: "u1", GoalAmount: Money{Cents: 1}, Month: 0, Year: 2026}
	assert.NoError(t, g.Validate())

	bad := g
	bad.Month = 12
	assert.True(t, IsValidation(bad.Validate()))

	bad = g
	bad.Month = -1
	assert.True(t, IsValidation(bad.Validate()))

	bad = g
	bad.GoalAmount = Money{}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidAmount)
}

func TestWrapStore(t *testing.T) {
	base := errors.New("database is locked")
	err := WrapStore("insert expense", base)
	assert.True(t, IsStore(err))
	assert.ErrorIs(t, err, base)

	nf := &NotFoundError{Resource: "expense", ID: "x"}
	assert.Same(t, nf, WrapStore("get expense", nf))
	assert.Nil(t, WrapStore("noop", nil))
}
