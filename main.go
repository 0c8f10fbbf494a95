package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"pulse311/adapters/table"
	"pulse311/app"
	"pulse311/domain/record"
	"pulse311/internal"
	"pulse311/internal/config"
	apperrors "pulse311/internal/errors"
	"pulse311/internal/testkit"
	"pulse311/ports"
	"pulse311/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger

	// Resolve the complaint data source
	records, err := loadRecords(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to load complaint data: %v", err)
	}
	logger.Info("Loaded %d complaint records", len(records))

	// Wire the dashboard service
	service := app.NewDashboardService(records, logger)

	// Start the web application
	webApp, err := ui.NewApp(service)
	if err != nil {
		log.Fatalf("Failed to initialize web application: %v", err)
	}
	webApp.SetDefaultMapPointCap(appConfig.Map.PointCap)

	if err := webApp.Start(ui.Config{Port: appConfig.Server.Port}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadRecords picks a data file and reads it. An explicit DATA_FILE
// wins; otherwise the data directory is probed for the well-known
// filenames. With no file at all a seeded synthetic dataset keeps the
// dashboard usable for local development.
func loadRecords(appConfig *config.Config, logger *internal.Logger) ([]record.Record, error) {
	filePath := appConfig.Data.File
	if filePath == "" {
		probed, err := table.ProbeDefaultFiles(appConfig.Data.Dir)
		if err != nil {
			logger.Warn("No data file found in %s, generating synthetic dataset", appConfig.Data.Dir)
			generator := testkit.NewGenerator(testkit.DefaultConfig())
			return generator.Generate(), nil
		}
		filePath = probed
	}

	logger.Info("Using data file: %s", filePath)
	var source ports.RecordSource = table.NewReader(filePath)
	records, err := source.LoadRecords(context.Background())
	if err != nil {
		return nil, apperrors.Wrap(err, "reading "+filePath)
	}
	return records, nil
}
