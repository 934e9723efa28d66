// Package auth registers users, issues bearer tokens and resolves the
// caller of each API request to a user id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgetbloom/internal/core"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
}

// Service handles registration and login.
type Service struct {
	users  UserStore
	tokens *Tokens
	cost   int
	now    func() time.Time
}

func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens, cost: 10, now: time.Now}
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      core.User `json:"user"`
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (core.User, error) {
	email = NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return core.User{}, core.NewValidationError("email", "a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return core.User{}, core.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	if len(password) > maxPasswordBytes {
		return core.User{}, core.NewValidationError("password", "password is too long")
	}

	hash, err := hashPasswordCost(password, s.cost)
	if err != nil {
		return core.User{}, err
	}

	u := core.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return core.User{}, core.WrapStore("create user", err)
	}

	slog.InfoContext(ctx, "User registered", "component", "auth", "user_id", u.ID)
	return u, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if core.IsNotFound(err) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, core.WrapStore("get user", err)
	}
	if !CheckPassword(password, u.PasswordHash) {
		slog.WarnContext(ctx, "Failed login", "component", "auth", "user_id", u.ID)
		return Session{}, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, User: u}, nil
}
