package http

import (
	"net/http"

	"budgetbloom/internal/log"
)

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	var req GoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	cmd, err := req.SetCommand()
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}

	goal, err := s.deps.Goals.SetGoal(r.Context(), userID, cmd)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation:      log.OpCreate,
			failure:        "Failed to set savings goal",
			conflict:       "Savings goal already set for this month",
			conflictStatus: http.StatusBadRequest,
		})
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(goal).Write(w, r)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	goal, err := s.deps.Goals.GetGoal(r.Context(), userID, ParseGoalLookup(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpRead,
			failure:   "Failed to fetch savings goal",
			notFound:  "No savings goal set for this month",
		})
		return
	}

	NewResponse().JSON(goal).Write(w, r)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := owner(w, r)
	if !ok {
		return
	}

	var req GoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	cmd, err := req.UpdateCommand()
	if err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}

	goal, err := s.deps.Goals.UpdateGoal(r.Context(), userID, cmd)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpUpdate,
			failure:   "Failed to update savings goal",
			notFound:  "No savings goal found for this month to update",
		})
		return
	}

	NewResponse().JSON(goal).Write(w, r)
}
