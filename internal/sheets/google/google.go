package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"budgetbloom/internal/core"
	ports "budgetbloom/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Columns written per expense, in order.
var rowHeaders = []string{"Date", "Category", "Amount", "Note", "User", "Expense ID"}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base name without year (e.g. "Expenses"); the expense year is prefixed.
	sheetBase string
	loc       *time.Location
}

var _ ports.ExpenseWriter = (*Client)(nil)

// Options configures a Sheets client.
type Options struct {
	SpreadsheetID string
	SheetName     string
	// CredentialsFile is a service account JSON key. When empty the
	// application default credentials are used.
	CredentialsFile string
	Location        *time.Location
}

// NewClient creates a Sheets client authenticated with a service account.
func NewClient(ctx context.Context, opts Options, extra ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	clientOpts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, goption.WithCredentialsFile(opts.CredentialsFile))
	}
	clientOpts = append(clientOpts, extra...)

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", opts.SpreadsheetID)

	return newClient(svc, opts), nil
}

func newClient(svc *gsheet.Service, opts Options) *Client {
	base := strings.TrimSpace(opts.SheetName)
	if base == "" {
		base = "Expenses"
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Client{svc: svc, spreadsheetID: opts.SpreadsheetID, sheetBase: base, loc: loc}
}

// Append adds one row for e at the end of the sheet for e's year and
// returns the updated range.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheet := c.sheetName(e.Date)
	rng := fmt.Sprintf("%s!A:%s", quoteSheet(sheet), lastColumn())
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(e, c.loc)}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	if resp.Updates == nil || resp.Updates.UpdatedRange == "" {
		return rng, nil
	}
	return resp.Updates.UpdatedRange, nil
}

func (c *Client) sheetName(date time.Time) string {
	return yearPrefixedName(c.sheetBase, date.In(c.loc).Year())
}

// rowValues renders e in rowHeaders order. Amounts are written as numbers
// so spreadsheet formulas can sum them.
func rowValues(e core.Expense, loc *time.Location) []any {
	return []any{
		core.DayKey(e.Date.In(loc)),
		string(e.Category),
		e.Amount.Float(),
		e.Note,
		e.UserID,
		e.ID,
	}
}

func lastColumn() string {
	return string(rune('A' + len(rowHeaders) - 1))
}

// quoteSheet wraps names containing spaces in the A1 quoting Sheets expects.
func quoteSheet(name string) string {
	if !strings.ContainsAny(name, " '!") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
