package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketing-analytics-api/config"
	"marketing-analytics-api/middleware"
	"marketing-analytics-api/models"
	"marketing-analytics-api/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One shared-cache memory database per test so parallel connections in
	// the pool see the same schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:            "8080",
		Environment:     "test",
		JWTSecret:       "test-secret",
		JWTExpireHours:  1,
		UploadPath:      t.TempDir(),
		MaxUploadSizeMB: 10,
		FrontendURL:     "http://localhost:3000",
	}
}

// newTestRouter wires the HTTP surface the way routes.SetupRoutes does,
// minus mail and metrics.
func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	log := zap.NewNop()

	auth := NewAuthController(db, cfg, log)
	health := NewHealthController(db)
	dashboard := NewDashboardController(db, log)
	reports := NewReportsController(db, log)
	products := NewProductsController(db, log)
	upload := NewUploadController(cfg, log, services.NewIngestService(db, log, nil))

	router := gin.New()
	v1 := router.Group("/api/v1")

	v1.GET("/health", health.Health)
	v1.POST("/auth/register", auth.Register)
	v1.POST("/auth/login", auth.Login)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(db, cfg))
	protected.GET("/auth/profile", auth.GetProfile)
	protected.PUT("/auth/change-password", auth.ChangePassword)
	protected.GET("/dashboard", dashboard.GetDashboard)
	protected.GET("/reports", reports.GetReports)
	protected.DELETE("/reports/:id", reports.DeleteReport)
	protected.GET("/products", products.GetProducts)
	protected.POST("/products", products.CreateProduct)
	protected.PUT("/products/:id", products.UpdateProduct)
	protected.DELETE("/products/:id", products.DeleteProduct)
	protected.POST("/upload", upload.UploadCSV)

	return router, db
}

// doJSON performs one request against the router. body may be empty; token
// may be empty for public routes.
func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "body: %s", w.Body.String())
}

// registerUser creates an account through the register endpoint and returns
// the session token plus the assigned user id.
func registerUser(t *testing.T, router *gin.Engine, email string) (string, int) {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":"changeme123","display_name":"Test User"}`, email)
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp LoginResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	require.NotZero(t, resp.User.UserID)
	return resp.Token, resp.User.UserID
}
