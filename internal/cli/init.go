// Package cli provides common CLI initialization utilities shared by
// cmd/budgetbloom, cmd/budgetbloom-worker and cmd/adduser.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetbloom/internal/amqp"
	"budgetbloom/internal/cache"
	"budgetbloom/internal/config"
	"budgetbloom/internal/log"
	"budgetbloom/internal/storage"

	"github.com/joho/godotenv"
)

// ShutdownTimeout bounds how long the binaries wait for in-flight work.
const ShutdownTimeout = 30 * time.Second

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default. An unknown level falls back to info;
// config validation reports it.
func SetupLogger(level, format string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	if format == "json" {
		cfg.Format = "json"
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Bootstrap loads .env, reads the configuration and installs the logger.
// It exits the process when the configuration is invalid.
func Bootstrap() (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitSQLite opens the repository at dbPath, running migrations.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// ConnectAMQP dials the broker when AMQP_URL is set. A nil client means
// events are not published; the server keeps serving without them.
func ConnectAMQP(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - no AMQP_URL provided")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, events will not be published", "error", err)
		return nil
	}
	logger.Info("AMQP connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// OpenCache returns the analytics cache: Redis when REDIS_ADDR is set and
// reachable, an in-process LRU otherwise. The returned func releases it.
func OpenCache(ctx context.Context, logger *log.Logger, cfg *config.Config) (cache.Store, func()) {
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		store, err := cache.NewRedisStore(pingCtx, cfg.RedisAddr, cfg.CacheTTL)
		if err == nil {
			logger.Info("Using Redis analytics cache", "addr", cfg.RedisAddr)
			return store, func() { _ = store.Close() }
		}
		logger.Warn("Redis unavailable, falling back to in-memory cache", "addr", cfg.RedisAddr, "error", err)
	}

	store := cache.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL)
	manager := cache.NewManager()
	manager.Register(store)
	manager.StartCleanup(10 * time.Minute)
	return store, manager.Stop
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
