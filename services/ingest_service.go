package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"marketing-analytics-api/models"
	"marketing-analytics-api/monitor"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxHistoryErrorLen caps the error text stored on a failed history entry.
const maxHistoryErrorLen = 1000

// ValidationError marks faults caused by the uploaded input itself (bad
// platform, unparseable CSV, no data rows) as opposed to collaborator
// faults. The HTTP layer maps these to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err is (or wraps) a validation fault.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	// ErrInvalidPlatform rejects an upload before any parsing happens.
	ErrInvalidPlatform = NewValidationError("invalid platform: must be one of facebook, tiktok, google")

	// ErrEmptyFile rejects a CSV that has a header but no data rows.
	ErrEmptyFile = NewValidationError("empty file")
)

// IngestResult reports one completed ingestion.
type IngestResult struct {
	RowsProcessed int
	Records       []models.CampaignReport
}

// IngestService drives an upload end to end: validate the platform, parse
// the CSV, transform every row, bulk-insert the batch, then write the
// upload-history entry. The data insert is the primary write; the history
// entry is best-effort and its failure never changes the reported outcome.
type IngestService struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *monitor.Metrics
}

func NewIngestService(db *gorm.DB, log *zap.Logger, metrics *monitor.Metrics) *IngestService {
	return &IngestService{db: db, log: log, metrics: metrics}
}

// IngestFile reads a staged file from disk and ingests it. fileName is the
// original client-side name, recorded in history and on every record; the
// caller owns removal of the staged file.
func (s *IngestService) IngestFile(path, fileName string, userID int, platform string) (*IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged file: %w", err)
	}
	return s.Ingest(data, fileName, userID, platform)
}

// Ingest runs the ingestion flow over raw CSV bytes. Validation failures
// (platform, parse, empty file) return before anything is written. A
// persistence fault surfaces the store's error and records a failed history
// entry; success records a completed entry with the inserted row count.
func (s *IngestService) Ingest(data []byte, fileName string, userID int, platform string) (*IngestResult, error) {
	start := time.Now()

	platform = models.NormalizePlatform(platform)
	if !models.IsKnownPlatform(platform) {
		s.metrics.ObserveUpload(models.PlatformUnknown, "rejected", 0, time.Since(start))
		return nil, ErrInvalidPlatform
	}

	_, rows, err := ParseCSV(data)
	if err != nil {
		s.metrics.ObserveUpload(platform, "rejected", 0, time.Since(start))
		return nil, NewValidationError(fmt.Sprintf("failed to parse csv: %v", err))
	}
	if len(rows) == 0 {
		s.metrics.ObserveUpload(platform, "rejected", 0, time.Since(start))
		return nil, ErrEmptyFile
	}

	multipliers, err := s.productMultipliers(userID)
	if err != nil {
		return nil, err
	}

	records := make([]models.CampaignReport, 0, len(rows))
	for _, row := range rows {
		rec := TransformRow(row, userID, platform, fileName)
		DeriveRevenue(&rec, multipliers)
		records = append(records, rec)
	}

	if err := s.db.Create(&records).Error; err != nil {
		s.recordHistory(userID, fileName, platform, 0, models.UploadStatusFailed, err)
		s.metrics.ObserveUpload(platform, models.UploadStatusFailed, 0, time.Since(start))
		return nil, err
	}

	s.recordHistory(userID, fileName, platform, len(records), models.UploadStatusCompleted, nil)
	s.metrics.ObserveUpload(platform, models.UploadStatusCompleted, len(records), time.Since(start))

	s.log.Info("upload ingested",
		zap.Int("user_id", userID),
		zap.String("platform", platform),
		zap.String("file", fileName),
		zap.Int("rows", len(records)),
	)

	return &IngestResult{RowsProcessed: len(records), Records: records}, nil
}

// recordHistory writes the upload-history entry for one ingestion event.
// Best-effort: a failure here is logged and swallowed.
func (s *IngestService) recordHistory(userID int, fileName, platform string, rowCount int, status string, cause error) {
	entry := models.UploadHistory{
		UserID:   userID,
		FileName: fileName,
		Platform: platform,
		RowCount: rowCount,
		Status:   status,
	}
	if cause != nil {
		msg := cause.Error()
		if len(msg) > maxHistoryErrorLen {
			msg = msg[:maxHistoryErrorLen]
		}
		entry.ErrorMessage = &msg
	}

	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Error("failed to record upload history",
			zap.Error(err),
			zap.Int("user_id", userID),
			zap.String("file", fileName),
			zap.String("status", status),
		)
	}
}

// productMultipliers snapshots the owner's revenue-per-conversion settings
// once per upload.
func (s *IngestService) productMultipliers(userID int) (map[string]float64, error) {
	var settings []models.ProductSetting
	if err := s.db.Where("user_id = ?", userID).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load product settings: %w", err)
	}

	m := make(map[string]float64, len(settings))
	for _, setting := range settings {
		m[setting.ProductName] = setting.RevenuePerConversion
	}
	return m, nil
}
