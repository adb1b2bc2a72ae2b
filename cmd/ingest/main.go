package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"marketing-analytics-api/config"
	"marketing-analytics-api/models"
	"marketing-analytics-api/services"

	"github.com/joho/godotenv"
)

// Command-line ingestion for operators: feeds one exported CSV through the
// same pipeline the upload endpoint uses, history entry included.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		filePath string
		platform string
		userID   int
	)

	flag.StringVar(&filePath, "file", "", "path to the CSV export to ingest (required)")
	flag.StringVar(&platform, "platform", "", "ad platform the export came from: facebook, tiktok or google (required)")
	flag.IntVar(&userID, "user", 0, "ID of the user the records belong to (required)")
	flag.Parse()

	if filePath == "" || platform == "" || userID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.OpenDB(cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	ingest := services.NewIngestService(db, logger, nil)

	result, err := ingest.IngestFile(filePath, filepath.Base(filePath), userID, platform)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	fmt.Printf("Rows ingested: %d\n", result.RowsProcessed)
	for _, rec := range result.Records {
		fmt.Printf("  %-10s %-40s spend=%.2f revenue=%.2f conversions=%.0f\n",
			rec.Platform, rec.CampaignName, rec.AmountSpent, rec.Revenue, rec.Conversions)
	}
}
