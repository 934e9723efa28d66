package core

import (
	"strings"
	"time"
)

// DayLayout is the day-granularity key used by the daily series.
const DayLayout = "2006-01-02"

const (
	minYear = 1970
	maxYear = 9999
)

// Period is a calendar month. Month is zero-indexed (0 = January).
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()) - 1, Year: t.Year()}
}

func (p Period) Validate() error {
	if p.Month < 0 || p.Month > 11 {
		return &ValidationError{Field: "month", Message: "month must be between 0 and 11", Err: ErrInvalidPeriod}
	}
	if p.Year < minYear || p.Year > maxYear {
		return &ValidationError{Field: "year", Message: "year is out of range", Err: ErrInvalidPeriod}
	}
	return nil
}

// Range returns the half-open interval covering the whole month in loc.
func (p Period) Range(loc *time.Location) DateRange {
	start := time.Date(p.Year, time.Month(p.Month+1), 1, 0, 0, 0, 0, loc)
	return DateRange{From: start, To: start.AddDate(0, 1, 0)}
}

// DateRange is the half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// StoredTime is t as the store hands it back: UTC with millisecond precision.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CurrentMonth covers the first through the last day of the month containing now.
func CurrentMonth(now time.Time) DateRange {
	return PeriodOf(now).Range(now.Location())
}

// TrailingDays covers today and the days-1 days before it.
func TrailingDays(now time.Time, days int) DateRange {
	today := StartOfDay(now)
	return DateRange{From: today.AddDate(0, 0, -(days - 1)), To: today.AddDate(0, 0, 1)}
}

// Last7Days covers today-7d through today, both days included.
func Last7Days(now time.Time) DateRange {
	today := StartOfDay(now)
	return DateRange{From: today.AddDate(0, 0, -7), To: today.AddDate(0, 0, 1)}
}

// InclusiveDays covers the calendar days from start through end.
func InclusiveDays(start, end time.Time) DateRange {
	return DateRange{From: StartOfDay(start), To: StartOfDay(end).AddDate(0, 0, 1)}
}

// DayKey formats t as its calendar day.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDate accepts "2006-01-02" (midnight in loc) or an RFC 3339 timestamp.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, ErrInvalidDate
}
