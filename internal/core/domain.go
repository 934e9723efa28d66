package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Category is one of the fixed expense categories.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryOther         Category = "Other"
)

// CategoryAll is the filter value meaning "every category".
const CategoryAll = "All"

// MaxNoteLength is the longest note accepted, in characters.
const MaxNoteLength = 500

var categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryOther,
}

// Categories returns the categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory matches s exactly against the known categories.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

type (
	Expense struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		Amount    Money     `json:"amount"`
		Category  Category  `json:"category"`
		Note      string    `json:"note"`
		Date      time.Time `json:"date"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Goal struct {
		ID         string    `json:"id"`
		UserID     string    `json:"userId"`
		GoalAmount Money     `json:"goalAmount"`
		Month      int       `json:"month"` // 0-11
		Year       int       `json:"year"`
		CreatedAt  time.Time `json:"createdAt"`
		UpdatedAt  time.Time `json:"updatedAt"`
	}

	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
	}
)

// Validate checks the mutable fields of an expense.
func (e Expense) Validate() error {
	if e.UserID == "" {
		return NewValidationError("userId", "owner is required")
	}
	if !e.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "amount must be at least 0.01", Err: ErrInvalidAmount}
	}
	if !e.Category.Valid() {
		return &ValidationError{Field: "category", Message: "unknown category " + string(e.Category), Err: ErrInvalidCategory}
	}
	if utf8.RuneCountInString(e.Note) > MaxNoteLength {
		return NewValidationError("note", "note is too long")
	}
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required", Err: ErrInvalidDate}
	}
	return nil
}

// NormalizeNote trims surrounding whitespace.
func NormalizeNote(s string) string {
	return strings.TrimSpace(s)
}

// Validate checks the goal amount and period.
func (g Goal) Validate() error {
	if g.UserID == "" {
		return NewValidationError("userId", "owner is required")
	}
	if !g.GoalAmount.IsPositive() {
		return &ValidationError{Field: "goalAmount", Message: "goal amount must be at least 0.01", Err: ErrInvalidAmount}
	}
	return Period{Month: g.Month, Year: g.Year}.Validate()
}

// Period returns the goal's (month, year) pair.
func (g Goal) Period() Period {
	return Period{Month: g.Month, Year: g.Year}
}
