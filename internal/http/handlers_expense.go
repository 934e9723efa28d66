package http

import (
	"net/http"

	"budgetbloom/internal/core"
	"budgetbloom/internal/log"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	var req CreateExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	cmd, err := req.Command(s.deps.Location)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}

	expense, err := s.deps.Expenses.CreateExpense(r.Context(), userID, cmd)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpCreate,
			failure:   "Failed to add expense",
		})
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(expense).Write(w, r)
}

// handleListExpenses lists every expense of the caller, newest first.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	s.listExpenses(w, r, core.ExpenseFilter{})
}

func (s *Server) handleFilteredExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseExpenseFilter(r.URL.Query(), s.deps.Location)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	s.listExpenses(w, r, filter)
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request, filter core.ExpenseFilter) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	expenses, err := s.deps.Expenses.ListExpenses(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpList,
			failure:   "Failed to fetch expenses",
		})
		return
	}

	NewResponse().JSON(expenses).Write(w, r)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	cmd, err := req.Command(s.deps.Location)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}

	expense, err := s.deps.Expenses.UpdateExpense(r.Context(), userID, chi.URLParam(r, "id"), cmd)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpUpdate,
			failure:   "Failed to update expense",
			notFound:  "Expense not found",
			forbidden: "Unauthorized to edit this expense",
		})
		return
	}

	NewResponse().JSON(expense).Write(w, r)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	if err := s.deps.Expenses.DeleteExpense(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpDelete,
			failure:   "Failed to delete expense",
			notFound:  "Expense not found",
			forbidden: "Unauthorized to delete this expense",
		})
		return
	}

	MessageResponse(http.StatusOK, "Expense deleted successfully").Write(w, r)
}
