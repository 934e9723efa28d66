package core

import "time"

// RangeSelector names a date window for listing expenses.
type RangeSelector string

const (
	RangeNone      RangeSelector = ""
	RangeLast7Days RangeSelector = "last7days"
	RangeThisMonth RangeSelector = "thismonth"
	RangeCustom    RangeSelector = "custom"
)

// SortOrder names an ordering for listing expenses.
type SortOrder string

const (
	// SortDefault lists newest first.
	SortDefault SortOrder = ""
	SortNewest  SortOrder = "newest"
	SortHighest SortOrder = "highest"
)

func ParseRangeSelector(s string) (RangeSelector, error) {
	switch r := RangeSelector(s); r {
	case RangeNone, RangeLast7Days, RangeThisMonth, RangeCustom:
		return r, nil
	}
	return "", NewValidationError("dateRange", "unknown date range "+s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortDefault, SortNewest, SortHighest:
		return o, nil
	}
	return "", NewValidationError("sortBy", "unknown sort order "+s)
}

// ExpenseQuery is a resolved listing request for one owner.
type ExpenseQuery struct {
	UserID   string
	Category Category // empty means every category
	Range    *DateRange
	Sort     SortOrder
}

// ExpenseFilter is the caller-facing listing filter before it is resolved
// against the clock.
type ExpenseFilter struct {
	Category  string
	DateRange RangeSelector
	StartDate time.Time
	EndDate   time.Time
	SortBy    SortOrder
}

// Resolve validates the filter and turns relative ranges into instants.
func (f ExpenseFilter) Resolve(userID string, now time.Time) (ExpenseQuery, error) {
	q := ExpenseQuery{UserID: userID, Sort: f.SortBy}

	if f.Category != "" && f.Category != CategoryAll {
		c, err := ParseCategory(f.Category)
		if err != nil {
			return q, &ValidationError{Field: "category", Message: "unknown category " + f.Category, Err: err}
		}
		q.Category = c
	}

	switch f.DateRange {
	case RangeNone:
	case RangeLast7Days:
		r := Last7Days(now)
		q.Range = &r
	case RangeThisMonth:
		r := CurrentMonth(now)
		q.Range = &r
	case RangeCustom:
		if f.StartDate.IsZero() || f.EndDate.IsZero() {
			return q, NewValidationError("dateRange", "custom range needs startDate and endDate")
		}
		if f.EndDate.Before(f.StartDate) {
			return q, NewValidationError("dateRange", "endDate is before startDate")
		}
		r := InclusiveDays(f.StartDate.In(now.Location()), f.EndDate.In(now.Location()))
		q.Range = &r
	default:
		return q, NewValidationError("dateRange", "unknown date range "+string(f.DateRange))
	}

	switch f.SortBy {
	case SortDefault, SortNewest, SortHighest:
	default:
		return q, NewValidationError("sortBy", "unknown sort order "+string(f.SortBy))
	}
	return q, nil
}
