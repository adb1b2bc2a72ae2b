package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketing-analytics-api/config"
	"marketing-analytics-api/models"
	"marketing-analytics-api/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const passwordResetTokenTTL = 10 * time.Minute

// MailSender is the slice of config.Mailer the reset flow needs; tests swap
// in a recorder.
type MailSender interface {
	Send(to []string, subject, html string) error
}

type passwordResetRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	RevokePasswordResetTokens(userID int, now time.Time) error
	CreateUserToken(token *models.UserToken) error
	FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error)
	UpdateUserPassword(userID int, hashedPassword string, now time.Time) error
	RevokeToken(tokenID int, now time.Time) error
}

type gormPasswordResetRepository struct {
	db *gorm.DB
}

func (r *gormPasswordResetRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormPasswordResetRepository) RevokePasswordResetTokens(userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}

	return r.db.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "password_reset", false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateUserToken(token *models.UserToken) error {
	return r.db.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error) {
	var tokens []models.UserToken
	err := r.db.Where("token_type = ? AND is_revoked = ? AND expires_at > ?", "password_reset", false, now).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

func (r *gormPasswordResetRepository) UpdateUserPassword(userID int, hashedPassword string, now time.Time) error {
	return r.db.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":   hashedPassword,
			"updated_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID int, now time.Time) error {
	return r.db.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

type PasswordResetController struct {
	repo     passwordResetRepository
	mailer   MailSender
	cfg      *config.Config
	log      *zap.Logger
	tokenGen func() (string, error)
}

func NewPasswordResetController(db *gorm.DB, mailer MailSender, cfg *config.Config, log *zap.Logger) *PasswordResetController {
	return &PasswordResetController{
		repo:     &gormPasswordResetRepository{db: db},
		mailer:   mailer,
		cfg:      cfg,
		log:      log,
		tokenGen: generateResetToken,
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword handles password reset token generation and email dispatch.
// The response is identical whether the account exists or not.
func (ctrl *PasswordResetController) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email format",
		})
		return
	}

	genericOK := gin.H{
		"success": true,
		"message": "If the email exists, a reset link has been sent.",
	}

	user, err := ctrl.repo.FindUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, genericOK)
		return
	}

	rawToken, err := ctrl.tokenGen()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create reset token"})
		return
	}

	hashedToken, err := HashPassword(rawToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to secure reset token"})
		return
	}

	now := time.Now()
	if err := ctrl.repo.RevokePasswordResetTokens(user.UserID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to prepare reset token"})
		return
	}

	token := models.UserToken{
		UserID:    user.UserID,
		TokenType: "password_reset",
		Token:     hashedToken,
		ExpiresAt: now.Add(passwordResetTokenTTL),
		IsRevoked: false,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ctrl.repo.CreateUserToken(&token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to store reset token"})
		return
	}

	if err := ctrl.sendPasswordResetEmail(*user, rawToken); err != nil {
		// Mail is a secondary collaborator; the token already exists, so log
		// and keep the anti-enumeration response.
		ctrl.log.Error("failed to send password reset email",
			zap.Error(err),
			zap.Int("user_id", user.UserID),
		)
	}

	c.JSON(http.StatusOK, genericOK)
}

// ResetPassword handles password reset using a previously emailed token.
func (ctrl *PasswordResetController) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
		})
		return
	}

	req.Token = utils.SanitizeInput(req.Token)
	req.NewPassword = utils.SanitizeInput(req.NewPassword)
	req.ConfirmPassword = utils.SanitizeInput(req.ConfirmPassword)

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Token is required"})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Passwords do not match"})
		return
	}
	if valid, message := utils.ValidatePassword(req.NewPassword); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
		return
	}

	now := time.Now()
	tokenRecord, err := ctrl.findActiveToken(req.Token, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	hashedPassword, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to secure password"})
		return
	}

	if err := ctrl.repo.UpdateUserPassword(tokenRecord.UserID, hashedPassword, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := ctrl.repo.RevokeToken(tokenRecord.TokenID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to revoke token"})
		return
	}
	if err := ctrl.repo.RevokePasswordResetTokens(tokenRecord.UserID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to finalize reset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}

// findActiveToken matches the raw token against stored hashes. Hashes are
// not searchable, so every live token is compared.
func (ctrl *PasswordResetController) findActiveToken(rawToken string, now time.Time) (*models.UserToken, error) {
	tokens, err := ctrl.repo.FindActivePasswordResetTokens(now)
	if err != nil {
		return nil, err
	}

	for i := range tokens {
		if CheckPasswordHash(rawToken, tokens[i].Token) {
			return &tokens[i], nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (ctrl *PasswordResetController) sendPasswordResetEmail(user models.User, rawToken string) error {
	resetURL, err := buildResetURL(ctrl.cfg.FrontendURL, rawToken)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		name = user.Email
	}

	escapedURL := template.HTMLEscapeString(resetURL)
	subject := "Reset your password"
	html := fmt.Sprintf(`<div style="font-family:sans-serif;max-width:480px;margin:0 auto;">
  <h2 style="color:#111;">Reset your password</h2>
  <p>Hi %s,</p>
  <p>We received a request to reset the password for your marketing analytics account.
     The link below expires in %d minutes.</p>
  <p><a href="%s" style="display:inline-block;padding:10px 18px;background:#2563eb;color:#fff;border-radius:6px;text-decoration:none;">Reset password</a></p>
  <p style="color:#555;">If the button does not work, copy this link into your browser:<br />
     <a href="%s" style="color:#2563eb;">%s</a></p>
  <p style="color:#555;">If you did not request this, you can ignore this email.</p>
</div>`,
		template.HTMLEscapeString(name),
		int(passwordResetTokenTTL.Minutes()),
		escapedURL, escapedURL, escapedURL,
	)

	return ctrl.mailer.Send([]string{user.Email}, subject, html)
}

func buildResetURL(baseURL, token string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/reset-password"
	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
