package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"budgetbloom/internal/auth"
	"budgetbloom/internal/cli"
	apphttp "budgetbloom/internal/http"
	"budgetbloom/internal/middleware/ratelimit"
	"budgetbloom/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap()
	logger.Info("Starting budgetbloom")

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Invalid timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	store, releaseCache := cli.OpenCache(context.Background(), logger, cfg)
	defer releaseCache()

	clock := services.SystemClock(loc)
	analytics := services.NewAnalyticsService(repo, repo, store, clock)

	opts := []services.Option{services.WithClock(clock), services.WithInvalidator(analytics)}
	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
		opts = append(opts, services.WithPublisher(amqpClient))
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	checks := []apphttp.ReadinessCheck{{Name: "sqlite", Check: repo.Ping}}
	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		checks = append(checks, apphttp.ReadinessCheck{Name: "redis", Check: pinger.Ping})
	}

	srv := apphttp.NewServer(net.JoinHostPort("", cfg.Port), apphttp.Deps{
		Expenses:      services.NewExpenseService(repo, opts...),
		Goals:         services.NewGoalService(repo, opts...),
		Analytics:     analytics,
		Auth:          auth.NewService(repo, tokens),
		Verifier:      tokens,
		Logger:        logger,
		Location:      loc,
		AllowedOrigin: cfg.AllowedOrigin,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		Checks: checks,
	})

	ctx, done := cli.GracefulShutdown(logger, cli.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Listening", "port", cfg.Port, "timezone", loc.String(), "amqp", amqpClient != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
