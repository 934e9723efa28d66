// Package http exposes the budgeting services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budgetbloom/internal/auth"
	"budgetbloom/internal/core"
	"budgetbloom/internal/log"
	"budgetbloom/internal/middleware/ratelimit"
	"budgetbloom/internal/middleware/security"
	"budgetbloom/internal/middleware/trace"
	"budgetbloom/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ExpenseAPI is the expense use-case surface the handlers call.
type ExpenseAPI interface {
	CreateExpense(ctx context.Context, owner string, cmd services.CreateExpenseCommand) (core.Expense, error)
	ListExpenses(ctx context.Context, owner string, filter core.ExpenseFilter) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, owner, id string, cmd services.UpdateExpenseCommand) (core.Expense, error)
	DeleteExpense(ctx context.Context, owner, id string) error
}

// GoalAPI is the goal use-case surface the handlers call.
type GoalAPI interface {
	SetGoal(ctx context.Context, owner string, cmd services.SetGoalCommand) (core.Goal, error)
	GetGoal(ctx context.Context, owner string, lookup services.GoalLookup) (core.Goal, error)
	UpdateGoal(ctx context.Context, owner string, cmd services.UpdateGoalCommand) (core.Goal, error)
}

// AnalyticsAPI serves the dashboard views.
type AnalyticsAPI interface {
	CategorySpending(ctx context.Context, owner string) ([]core.CategoryTotal, error)
	SpendingOverTime(ctx context.Context, owner string) ([]core.DailyTotal, error)
	CurrentMonthProgress(ctx context.Context, owner string) (core.Progress, error)
}

// AuthAPI registers and logs in users.
type AuthAPI interface {
	Register(ctx context.Context, email, password string) (core.User, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
}

// ReadinessCheck is one dependency probed by /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps carries everything the server needs. Location is the budget time
// zone used to read dates sent without an offset.
type Deps struct {
	Expenses  ExpenseAPI
	Goals     GoalAPI
	Analytics AnalyticsAPI
	Auth      AuthAPI
	Verifier  auth.Verifier

	Logger        *log.Logger
	Location      *time.Location
	AllowedOrigin string
	RateLimit     ratelimit.Config
	Checks        []ReadinessCheck
}

type Server struct {
	http.Server
	deps     Deps
	limiter  *ratelimit.Limiter
	detector *security.Detector
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}

	s := &Server{
		deps:     deps,
		limiter:  ratelimit.NewLimiter(deps.RateLimit),
		detector: security.NewDetector(),
		started:  time.Now(),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s
}

func (s *Server) routes() http.Handler {
	tracer := trace.NewMiddleware(s.detector.ClientIP)

	r := chi.NewRouter()
	r.Use(log.Middleware(s.deps.Logger))
	r.Use(tracer.RequestID)
	r.Use(log.RequestIDMiddleware(trace.RequestIDFromRequest))
	r.Use(tracer.Logging)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(s.detector.Middleware)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(security.CORS(security.DefaultCORSConfig(s.deps.AllowedOrigin)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusNotFound, "Not found").Write(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed").Write(w, r)
	})

	r.Get("/", s.handleBanner)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
			ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w, r)
		}))

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.deps.Verifier, func(w http.ResponseWriter, r *http.Request, msg string) {
				ErrorResponse(http.StatusUnauthorized, msg).Write(w, r)
			}))

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.handleCreateExpense)
				r.Get("/", s.handleListExpenses)
				r.Get("/filtered", s.handleFilteredExpenses)
				r.Get("/export", s.handleExportExpenses)
				r.Put("/{id}", s.handleUpdateExpense)
				r.Delete("/{id}", s.handleDeleteExpense)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Post("/", s.handleSetGoal)
				r.Get("/", s.handleGetGoal)
				r.Put("/", s.handleUpdateGoal)
			})

			r.Get("/progress/current-month", s.handleCurrentMonthProgress)
			r.Get("/visualizations/category-spending", s.handleCategorySpending)
			r.Get("/visualizations/spending-over-time", s.handleSpendingOverTime)
		})
	})

	return r
}

// Shutdown stops the limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
