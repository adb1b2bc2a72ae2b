package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health reports liveness plus a store-connectivity flag. Always 200: a dead
// database degrades the flag, not the probe.
func (ctrl *HealthController) Health(c *gin.Context) {
	connected := false
	if sqlDB, err := ctrl.db.DB(); err == nil && sqlDB.Ping() == nil {
		connected = true
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"message":  "Marketing Analytics API is running",
		"database": connected,
	})
}
