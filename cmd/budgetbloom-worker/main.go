package main

import (
	"context"
	"os"
	"time"

	"budgetbloom/internal/cli"
	"budgetbloom/internal/services"
	"budgetbloom/internal/sheets"
	gsheet "budgetbloom/internal/sheets/google"
	"budgetbloom/internal/worker"
)

const statsInterval = 5 * time.Minute

func main() {
	cfg, logger := cli.Bootstrap()
	logger.Info("Starting budgetbloom-worker")

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Invalid timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by the worker")
		os.Exit(1)
	}
	amqpClient := cli.ConnectAMQP(logger, cfg)
	if amqpClient == nil {
		os.Exit(1)
	}
	defer amqpClient.Close()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	store, releaseCache := cli.OpenCache(context.Background(), logger, cfg)
	defer releaseCache()

	analytics := services.NewAnalyticsService(repo, repo, store, services.SystemClock(loc))

	var mirror sheets.ExpenseWriter
	if cfg.SheetsEnabled() {
		client, err := gsheet.NewClient(context.Background(), gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			Location:        loc,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.NewAlertWorker(analytics, repo, mirror, logger)

	ctx, done := cli.GracefulShutdown(logger, cli.ShutdownTimeout, nil)

	if err := w.Run(ctx, amqpClient, statsInterval); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	s := w.Stats()
	logger.Info("Worker stopped gracefully", "handled", s.Handled, "alerts", s.Alerts, "mirrored", s.Mirrored)
}
