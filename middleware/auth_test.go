package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketing-analytics-api/config"
	"marketing-analytics-api/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func newProbeRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret"}

	router := gin.New()
	router.GET("/probe", AuthMiddleware(db, cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt("userID"),
			"email":   c.GetString("email"),
		})
	})
	return router, db, cfg
}

func signToken(t *testing.T, secret string, userID int, expiresAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		Email:  "owner@shop.test",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func probe(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router, db, cfg := newProbeRouter(t)

	user := models.User{Email: "owner@shop.test", Password: "irrelevant"}
	require.NoError(t, db.Create(&user).Error)

	token := signToken(t, cfg.JWTSecret, user.UserID, time.Now().Add(time.Hour))
	w := probe(router, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"user_id":%d`, user.UserID))
	assert.Contains(t, w.Body.String(), `"email":"owner@shop.test"`)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router, _, _ := newProbeRouter(t)

	w := probe(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	router, _, _ := newProbeRouter(t)

	w := probe(router, "Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authorization header format")
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	router, _, _ := newProbeRouter(t)

	w := probe(router, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	router, db, cfg := newProbeRouter(t)

	user := models.User{Email: "owner@shop.test", Password: "irrelevant"}
	require.NoError(t, db.Create(&user).Error)

	token := signToken(t, cfg.JWTSecret, user.UserID, time.Now().Add(-time.Hour))
	w := probe(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	router, db, _ := newProbeRouter(t)

	user := models.User{Email: "owner@shop.test", Password: "irrelevant"}
	require.NoError(t, db.Create(&user).Error)

	token := signToken(t, "some-other-secret", user.UserID, time.Now().Add(time.Hour))
	w := probe(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	router, _, cfg := newProbeRouter(t)

	token := signToken(t, cfg.JWTSecret, 4242, time.Now().Add(time.Hour))
	w := probe(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}
