package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"marketing-analytics-api/models"
	"marketing-analytics-api/services"
	"marketing-analytics-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsController struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewProductsController(db *gorm.DB, log *zap.Logger) *ProductsController {
	return &ProductsController{db: db, log: log}
}

type ProductRequest struct {
	ProductName          string  `json:"product_name" binding:"required"`
	RevenuePerConversion float64 `json:"revenue_per_conversion"`
}

// ProductWithPerformance is a product setting enriched with metrics computed
// from the owner's campaign records at read time.
type ProductWithPerformance struct {
	models.ProductSetting
	Performance services.ProductStat `json:"performance"`
}

// GetProducts lists the caller's product settings, each carrying performance
// metrics recomputed from campaign records on every read. Products with a
// setting but no campaign data get zeroed metrics and the N/A platform
// sentinel.
func (ctrl *ProductsController) GetProducts(c *gin.Context) {
	userID := c.GetInt("userID")

	var settings []models.ProductSetting
	if err := ctrl.db.Where("user_id = ?", userID).
		Order("product_name ASC").
		Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	var records []models.CampaignReport
	if err := ctrl.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	statsByName := make(map[string]services.ProductStat)
	for _, stat := range services.AggregateProducts(records) {
		statsByName[stat.ProductName] = stat
	}

	products := make([]ProductWithPerformance, 0, len(settings))
	for _, setting := range settings {
		stat, ok := statsByName[setting.ProductName]
		if !ok {
			stat = services.ProductStat{
				ProductName:  setting.ProductName,
				BestPlatform: services.NoBestPlatform,
			}
		}
		products = append(products, ProductWithPerformance{
			ProductSetting: setting,
			Performance:    stat,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// CreateProduct upserts a product setting keyed by owner plus product name:
// posting an existing name overwrites its revenue-per-conversion instead of
// erroring.
func (ctrl *ProductsController) CreateProduct(c *gin.Context) {
	userID := c.GetInt("userID")

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	name := utils.SanitizeInput(req.ProductName)
	if valid, message := utils.ValidateProductName(name); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
		return
	}
	if req.RevenuePerConversion < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Revenue per conversion must not be negative"})
		return
	}

	setting := models.ProductSetting{
		UserID:               userID,
		ProductName:          name,
		RevenuePerConversion: req.RevenuePerConversion,
	}
	if err := ctrl.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"revenue_per_conversion": req.RevenuePerConversion,
			"updated_at":             time.Now(),
		}),
	}).Create(&setting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Re-read so the response carries the stored row regardless of which
	// branch the upsert took.
	var saved models.ProductSetting
	if err := ctrl.db.Where("user_id = ? AND product_name = ?", userID, name).
		First(&saved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctrl.log.Info("product setting saved",
		zap.Int("user_id", userID),
		zap.String("product_name", name),
		zap.Float64("revenue_per_conversion", req.RevenuePerConversion),
	)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"product": saved,
		"message": "Product saved successfully",
	})
}

// UpdateProduct changes one setting's name or revenue-per-conversion.
// Renaming onto another existing product of the same owner is rejected.
func (ctrl *ProductsController) UpdateProduct(c *gin.Context) {
	userID := c.GetInt("userID")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product ID"})
		return
	}

	var setting models.ProductSetting
	if err := ctrl.db.First(&setting, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Check ownership
	if setting.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	name := utils.SanitizeInput(req.ProductName)
	if valid, message := utils.ValidateProductName(name); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
		return
	}
	if req.RevenuePerConversion < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Revenue per conversion must not be negative"})
		return
	}

	if name != setting.ProductName {
		var clash models.ProductSetting
		err := ctrl.db.Where("user_id = ? AND product_name = ? AND id <> ?", userID, name, setting.ID).
			First(&clash).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Product name already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
	}

	setting.ProductName = name
	setting.RevenuePerConversion = req.RevenuePerConversion
	if err := ctrl.db.Save(&setting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": setting,
		"message": "Product updated successfully",
	})
}

// DeleteProduct removes one setting owned by the caller. Campaign records
// referencing the product name stay untouched.
func (ctrl *ProductsController) DeleteProduct(c *gin.Context) {
	userID := c.GetInt("userID")

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product ID"})
		return
	}

	var setting models.ProductSetting
	if err := ctrl.db.First(&setting, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	// Check ownership
	if setting.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Access denied"})
		return
	}

	if err := ctrl.db.Delete(&setting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctrl.log.Info("product setting deleted",
		zap.Int("user_id", userID),
		zap.String("product_name", setting.ProductName),
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}
