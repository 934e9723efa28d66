// Package core holds the budgeting domain: expenses, goals, periods, money
// and the error taxonomy shared by every layer.
package core

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer cents.
type Money struct {
	Cents int64
}

// maxCents keeps sums of many amounts far away from int64 overflow.
const maxCents = int64(1) << 50

// ParseDecimalToCents converts a decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Amounts finer
// than a cent are rejected rather than rounded, so 0.005 never becomes 0.01:
//
//	ParseDecimalToCents("12.34")  -> 1234
//	ParseDecimalToCents("12.340") -> 1234
//	ParseDecimalToCents("12.345") -> ErrInvalidAmount
//
// The result is not checked for sign; callers validate positivity.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return decimalToCents(d)
}

func decimalToCents(d decimal.Decimal) (int64, error) {
	if !d.Equal(d.Truncate(2)) {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(maxCents)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in currency units for ratio computations.
func (m Money) Float() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// IsPositive reports whether the amount is at least one cent.
func (m Money) IsPositive() bool { return m.Cents > 0 }

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON number in currency units (12.5, not 1250).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("amount: %w", ErrInvalidAmount)
	}
	s := string(bytes.Trim(b, `"`))
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	m.Cents = cents
	return nil
}
