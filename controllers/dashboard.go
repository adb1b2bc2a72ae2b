package controllers

import (
	"net/http"

	"marketing-analytics-api/models"
	"marketing-analytics-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DashboardController struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDashboardController(db *gorm.DB, log *zap.Logger) *DashboardController {
	return &DashboardController{db: db, log: log}
}

// GetDashboard returns the caller's headline KPIs, per-platform breakdown
// and the five newest uploads. Every request re-reads and re-folds the
// records; nothing is cached.
func (ctrl *DashboardController) GetDashboard(c *gin.Context) {
	userID := c.GetInt("userID")

	var records []models.CampaignReport
	if err := ctrl.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	var recentUploads []models.UploadHistory
	if err := ctrl.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&recentUploads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"kpis":          services.SummarizeKPIs(records),
		"platformData":  services.AggregatePlatforms(records),
		"recentUploads": recentUploads,
	})
}
