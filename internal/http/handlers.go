package http

import (
	"context"
	"net/http"
	"time"

	"budgetbloom/internal/auth"
)

// Banner is the plain-text body of GET /.
const Banner = "BudgetBloom Backend is running!"

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	NewResponse().Bytes("text/plain; charset=utf-8", []byte(Banner)).Write(w, r)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w, r)
}

// handleReady runs every readiness check and answers 503 if any fails.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, httpStatus := "ready", http.StatusOK
	checks := make(map[string]string, len(s.deps.Checks))
	for _, c := range s.deps.Checks {
		if err := c.Check(ctx); err != nil {
			checks[c.Name] = "failed: " + err.Error()
			status, httpStatus = "not_ready", http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = "ok"
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status": status,
		"checks": checks,
	}).Write(w, r)
}

// owner returns the authenticated user id. The auth middleware guarantees
// it on every /api route but the auth ones.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		ErrorResponse(http.StatusUnauthorized, "Authorization token not provided").Write(w, r)
	}
	return id, ok
}
