package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"budgetbloom/internal/core"
	"budgetbloom/internal/services"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON object into dst, rejecting unknown
// fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var (
			syntaxErr *json.SyntaxError
			typeErr   *json.UnmarshalTypeError
			maxErr    *http.MaxBytesError
		)
		switch {
		case errors.Is(err, io.EOF):
			return core.NewValidationError("", "request body is required")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return core.NewValidationError("", "request body is not valid JSON")
		case errors.As(err, &typeErr):
			return core.NewValidationError(typeErr.Field, "has the wrong type")
		case errors.Is(err, core.ErrInvalidAmount):
			return &core.ValidationError{Message: err.Error(), Err: err}
		case errors.As(err, &maxErr):
			return core.NewValidationError("", "request body is too large")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return core.NewValidationError(field, "unknown field")
		default:
			return &core.ValidationError{Message: "invalid request body", Err: err}
		}
	}
	if dec.More() {
		return core.NewValidationError("", "request body must contain a single JSON object")
	}
	return nil
}

func required(field string) error {
	return core.NewValidationError(field, field+" is required")
}

// CreateExpenseRequest is the body of POST /api/expenses.
type CreateExpenseRequest struct {
	Amount   *core.Money `json:"amount"`
	Category *string     `json:"category"`
	Note     *string     `json:"note"`
	Date     *string     `json:"date"`
}

// Command validates presence and converts the request. Dates without an
// offset are read in loc.
func (req CreateExpenseRequest) Command(loc *time.Location) (services.CreateExpenseCommand, error) {
	var cmd services.CreateExpenseCommand
	if req.Amount == nil {
		return cmd, required("amount")
	}
	if req.Category == nil {
		return cmd, required("category")
	}
	cmd.Amount = *req.Amount
	cmd.Category = core.Category(strings.TrimSpace(*req.Category))
	if req.Note != nil {
		cmd.Note = *req.Note
	}
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		d, err := parseDateField("date", *req.Date, loc)
		if err != nil {
			return cmd, err
		}
		cmd.Date = &d
	}
	return cmd, nil
}

// UpdateExpenseRequest is the body of PUT /api/expenses/{id}. Every field
// must be present; the update replaces all four.
type UpdateExpenseRequest struct {
	Amount   *core.Money `json:"amount"`
	Category *string     `json:"category"`
	Note     *string     `json:"note"`
	Date     *string     `json:"date"`
}

func (req UpdateExpenseRequest) Command(loc *time.Location) (services.UpdateExpenseCommand, error) {
	var cmd services.UpdateExpenseCommand
	switch {
	case req.Amount == nil:
		return cmd, required("amount")
	case req.Category == nil:
		return cmd, required("category")
	case req.Note == nil:
		return cmd, required("note")
	case req.Date == nil:
		return cmd, required("date")
	}

	d, err := parseDateField("date", *req.Date, loc)
	if err != nil {
		return cmd, err
	}
	return services.UpdateExpenseCommand{
		Amount:   *req.Amount,
		Category: core.Category(strings.TrimSpace(*req.Category)),
		Note:     *req.Note,
		Date:     d,
	}, nil
}

// GoalRequest is the body of POST and PUT /api/goals. Month is 0-11.
type GoalRequest struct {
	GoalAmount *core.Money `json:"goalAmount"`
	Month      *int        `json:"month"`
	Year       *int        `json:"year"`
}

func (req GoalRequest) parts() (core.Money, core.Period, error) {
	switch {
	case req.GoalAmount == nil:
		return core.Money{}, core.Period{}, required("goalAmount")
	case req.Month == nil:
		return core.Money{}, core.Period{}, required("month")
	case req.Year == nil:
		return core.Money{}, core.Period{}, required("year")
	}
	return *req.GoalAmount, core.Period{Month: *req.Month, Year: *req.Year}, nil
}

func (req GoalRequest) SetCommand() (services.SetGoalCommand, error) {
	amount, period, err := req.parts()
	return services.SetGoalCommand{GoalAmount: amount, Period: period}, err
}

func (req GoalRequest) UpdateCommand() (services.UpdateGoalCommand, error) {
	amount, period, err := req.parts()
	return services.UpdateGoalCommand{GoalAmount: amount, Period: period}, err
}

// CredentialsRequest is the body of the register and login routes.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ParseExpenseFilter reads category, dateRange, startDate, endDate and
// sortBy from the query string.
func ParseExpenseFilter(q url.Values, loc *time.Location) (core.ExpenseFilter, error) {
	var f core.ExpenseFilter
	f.Category = strings.TrimSpace(q.Get("category"))

	rng, err := core.ParseRangeSelector(strings.TrimSpace(q.Get("dateRange")))
	if err != nil {
		return f, err
	}
	f.DateRange = rng

	sort, err := core.ParseSortOrder(strings.TrimSpace(q.Get("sortBy")))
	if err != nil {
		return f, err
	}
	f.SortBy = sort

	if rng == core.RangeCustom {
		if v := q.Get("startDate"); v != "" {
			if f.StartDate, err = parseDateField("startDate", v, loc); err != nil {
				return f, err
			}
		}
		if v := q.Get("endDate"); v != "" {
			if f.EndDate, err = parseDateField("endDate", v, loc); err != nil {
				return f, err
			}
		}
	}
	return f, nil
}

// ParseGoalLookup reads month and year from the query string. Absent or
// non-numeric values select the current month or year.
func ParseGoalLookup(q url.Values) services.GoalLookup {
	var lookup services.GoalLookup
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("month"))); err == nil {
		lookup.Month = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("year"))); err == nil {
		lookup.Year = &v
	}
	return lookup
}

func parseDateField(field, value string, loc *time.Location) (time.Time, error) {
	t, err := core.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, &core.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%q is not a YYYY-MM-DD or RFC 3339 date", value),
			Err:     err,
		}
	}
	return t, nil
}
