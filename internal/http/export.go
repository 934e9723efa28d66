package http

import (
	"fmt"
	"net/http"
	"time"

	"budgetbloom/internal/core"
	"budgetbloom/internal/log"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportSheet     = "Expenses"
)

var exportHeaders = []string{"Date", "Category", "Amount", "Note", "Created At"}

// handleExportExpenses answers the filtered expense list as an XLSX workbook.
func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	filter, err := ParseExpenseFilter(r.URL.Query(), s.deps.Location)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}

	expenses, err := s.deps.Expenses.ListExpenses(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpExport,
			failure:   "Failed to export expenses",
		})
		return
	}

	body, err := buildWorkbook(expenses, s.deps.Location)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpExport,
			failure:   "Failed to export expenses",
		})
		return
	}

	filename := fmt.Sprintf("expenses-%s.xlsx", core.DayKey(time.Now().In(s.deps.Location)))
	NewResponse().
		Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename)).
		Bytes(xlsxContentType, body).
		Write(w, r)
}

// buildWorkbook writes one row per expense under a header row. Dates are
// rendered in loc.
func buildWorkbook(expenses []core.Expense, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}

	for i, e := range expenses {
		row := i + 2
		values := []any{
			core.DayKey(e.Date.In(loc)),
			string(e.Category),
			e.Amount.Float(),
			e.Note,
			e.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
		amountCell := fmt.Sprintf("C%d", row)
		if err := f.SetCellStyle(exportSheet, amountCell, amountCell, amountStyle); err != nil {
			return nil, fmt.Errorf("style row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "E", 16); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
