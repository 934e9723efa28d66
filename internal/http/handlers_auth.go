package http

import (
	"net/http"

	"budgetbloom/internal/log"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}

	user, err := s.deps.Auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpRegister,
			failure:   "Failed to register user",
			conflict:  "Email already registered",
		})
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(user).Write(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err, errorMessages{})
		return
	}
	if req.Email == "" || req.Password == "" {
		ErrorResponse(http.StatusBadRequest, "email and password are required").Write(w, r)
		return
	}

	session, err := s.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, errorMessages{
			operation: log.OpLogin,
			failure:   "Failed to log in",
		})
		return
	}

	NewResponse().JSON(session).Write(w, r)
}
