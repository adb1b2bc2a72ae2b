package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"marketing-analytics-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reportDateLayout = "2006-01-02"

type ReportsController struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReportsController(db *gorm.DB, log *zap.Logger) *ReportsController {
	return &ReportsController{db: db, log: log}
}

// GetReports returns the caller's upload history, paginated and filterable
// by platform, date range and file-name search, together with summary
// counters over the filtered set.
func (ctrl *ReportsController) GetReports(c *gin.Context) {
	userID := c.GetInt("userID")

	// Parse query parameters
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	platform := models.NormalizePlatform(c.Query("platform"))
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	search := c.Query("search")

	// Validate pagination
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var start, end time.Time
	if startDate != "" {
		parsed, err := time.Parse(reportDateLayout, startDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid start_date format, expected YYYY-MM-DD"})
			return
		}
		start = parsed
	}
	if endDate != "" {
		parsed, err := time.Parse(reportDateLayout, endDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid end_date format, expected YYYY-MM-DD"})
			return
		}
		// end_date is inclusive
		end = parsed.AddDate(0, 0, 1)
	}

	filtered := func() *gorm.DB {
		q := ctrl.db.Model(&models.UploadHistory{}).Where("user_id = ?", userID)
		if platform != "" {
			q = q.Where("platform = ?", platform)
		}
		if !start.IsZero() {
			q = q.Where("created_at >= ?", start)
		}
		if !end.IsZero() {
			q = q.Where("created_at < ?", end)
		}
		if search != "" {
			q = q.Where("file_name LIKE ?", "%"+search+"%")
		}
		return q
	}

	var totalCount int64
	if err := filtered().Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	var reports []models.UploadHistory
	if err := filtered().Order("created_at DESC").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	var summary struct {
		TotalUploads int64 `json:"total_uploads"`
		TotalRows    int64 `json:"total_rows"`
		Completed    int64 `json:"completed"`
		Failed       int64 `json:"failed"`
	}
	if err := filtered().
		Select(
			"COUNT(*) AS total_uploads, "+
				"COALESCE(SUM(row_count), 0) AS total_rows, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS failed",
			models.UploadStatusCompleted, models.UploadStatusFailed,
		).
		Scan(&summary).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	totalPages := (totalCount + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reports": reports,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     limit,
			"total_count":  totalCount,
			"total_pages":  totalPages,
			"has_next":     page < int(totalPages),
			"has_prev":     page > 1,
		},
		"summary": summary,
		"filters": gin.H{
			"platform":   platform,
			"start_date": startDate,
			"end_date":   endDate,
			"search":     search,
		},
	})
}

// DeleteReport removes one upload-history row owned by the caller. The
// campaign records ingested by that upload are kept.
func (ctrl *ReportsController) DeleteReport(c *gin.Context) {
	userID := c.GetInt("userID")

	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid report ID"})
		return
	}

	var report models.UploadHistory
	if err := ctrl.db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Check ownership
	if report.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
		return
	}

	if err := ctrl.db.Delete(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctrl.log.Info("upload history entry deleted",
		zap.Int("user_id", userID),
		zap.Int("report_id", reportID),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report deleted successfully"})
}
