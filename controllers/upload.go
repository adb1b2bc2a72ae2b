package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"marketing-analytics-api/config"
	"marketing-analytics-api/models"
	"marketing-analytics-api/services"
	"marketing-analytics-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Browsers disagree about the MIME type of a .csv file, so the check is
// intentionally loose; the extension check is the one that gates.
var allowedUploadContentTypes = map[string]bool{
	"":                         true,
	"text/csv":                 true,
	"text/plain":               true,
	"application/csv":          true,
	"application/vnd.ms-excel": true,
	"application/octet-stream": true,
}

type UploadController struct {
	cfg    *config.Config
	log    *zap.Logger
	ingest *services.IngestService
}

func NewUploadController(cfg *config.Config, log *zap.Logger, ingest *services.IngestService) *UploadController {
	return &UploadController{cfg: cfg, log: log, ingest: ingest}
}

// UploadCSV receives a multipart CSV export for one ad platform, stages it
// on local disk, runs it through ingestion and answers with the stored
// records. The staged copy is removed however ingestion ends.
func (ctrl *UploadController) UploadCSV(c *gin.Context) {
	userID := c.GetInt("userID")

	platform := models.NormalizePlatform(c.PostForm("platform"))
	if platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Platform is required"})
		return
	}
	if !models.IsKnownPlatform(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": services.ErrInvalidPlatform.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	if file.Size > ctrl.cfg.MaxUploadBytes() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("File size exceeds %dMB limit", ctrl.cfg.MaxUploadSizeMB),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if ext != ".csv" || !allowedUploadContentTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Only CSV files are allowed"})
		return
	}

	stagingDir := filepath.Join(ctrl.cfg.UploadPath, "staging")
	if err := utils.EnsureDir(stagingDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create staging directory"})
		return
	}
	stagedPath := filepath.Join(stagingDir, utils.StagedFileName(file.Filename))

	if err := c.SaveUploadedFile(file, stagedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save file"})
		return
	}
	defer func() {
		if err := os.Remove(stagedPath); err != nil && !os.IsNotExist(err) {
			ctrl.log.Warn("failed to remove staged upload",
				zap.String("path", stagedPath),
				zap.Error(err),
			)
		}
	}()

	result, err := ctrl.ingest.IngestFile(stagedPath, file.Filename, userID, platform)
	if err != nil {
		if services.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"rowsProcessed": result.RowsProcessed,
		"data":          result.Records,
	})
}
