package models

import (
	"time"
)

type User struct {
	UserID      int       `gorm:"primaryKey;autoIncrement;column:user_id" json:"user_id"`
	Email       string    `gorm:"column:email;unique" json:"email"`
	Password    string    `gorm:"column:password" json:"-"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserToken stores hashed one-shot tokens (password reset). The raw token is
// mailed to the user and only its bcrypt hash is persisted.
type UserToken struct {
	TokenID   int       `gorm:"primaryKey;autoIncrement;column:token_id" json:"token_id"`
	UserID    int       `gorm:"column:user_id;index" json:"user_id"`
	TokenType string    `gorm:"column:token_type;type:varchar(32)" json:"token_type"`
	Token     string    `gorm:"column:token" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked bool      `gorm:"column:is_revoked;default:false" json:"is_revoked"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(64)" json:"ip_address"`
	UserAgent string    `gorm:"column:user_agent;type:varchar(255)" json:"user_agent"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}
