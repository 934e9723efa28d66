package http

import (
	"net/http"

	"budgetbloom/internal/log"
)

func (s *Server) handleCurrentMonthProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	progress, err := s.deps.Analytics.CurrentMonthProgress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpAggregate,
			failure:   "Failed to fetch goal progress",
			notFound:  "No savings goal set for this month",
		})
		return
	}

	NewResponse().JSON(progress).Write(w, r)
}

func (s *Server) handleCategorySpending(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	totals, err := s.deps.Analytics.CategorySpending(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpAggregate,
			failure:   "Failed to fetch category spending data",
		})
		return
	}

	NewResponse().JSON(totals).Write(w, r)
}

func (s *Server) handleSpendingOverTime(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	daily, err := s.deps.Analytics.SpendingOverTime(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpAggregate,
			failure:   "Failed to fetch spending over time data",
		})
		return
	}

	NewResponse().JSON(daily).Write(w, r)
}
