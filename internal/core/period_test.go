package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC)
	r := CurrentMonth(now)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), r.To)
	assert.True(t, r.Contains(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPeriodRange_December(t *testing.T) {
	r := Period{Month: 11, Year: 2025}.Range(time.UTC)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), r.To)
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, Period{Month: 0, Year: 2026}, PeriodOf(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
}

func TestTrailingDays(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	r := TrailingDays(now, 30)

	assert.True(t, r.Contains(now.AddDate(0, 0, -29)))
	assert.True(t, r.Contains(time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 9, 19, 23, 59, 0, 0, time.UTC)))
}

func TestLast7Days(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	r := Last7Days(now)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), r.To)
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	d, err := ParseDate("2026-10-05", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, loc), d)

	d, err = ParseDate("2026-10-05T23:30:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-06", DayKey(d))

	_, err = ParseDate("05/10/2026", loc)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
