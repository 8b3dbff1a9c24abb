package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/export"
	"shareit/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	var (
		daysBack  = flag.Int("days-back", 7, "days before today to include")
		daysAhead = flag.Int("days-ahead", 30, "days after today to include")
		toSheets  = flag.Bool("sheets", false, "also replace the Google Sheets bookings tab")
	)
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := logging.Component(baseLogger, "export")

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	period := export.PeriodAround(time.Now(), *daysBack, *daysAhead)
	bookings, err := db.GetBookingsForExport(ctx, period.From, period.To)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}

	path, err := export.WriteXLSX(cfg.Exports.Path, period, bookings)
	if err != nil {
		return err
	}
	logger.Info().Str("file", path).Int("bookings", len(bookings)).Msg("report written")

	if !*toSheets {
		return nil
	}
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		return fmt.Errorf("google credentials_file and bookings_spreadsheet_id are required for -sheets")
	}
	writer, err := export.NewSheetsWriter(ctx, cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		return err
	}
	if err := writer.ReplaceBookingsSheet(ctx, bookings); err != nil {
		return err
	}
	logger.Info().Str("spreadsheet", cfg.Google.BookingsSpreadsheetID).Msg("bookings sheet replaced")
	return nil
}
