package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	PlatformFacebook = "facebook"
	PlatformTikTok   = "tiktok"
	PlatformGoogle   = "google"

	// PlatformUnknown is the aggregation bucket for rows whose platform is
	// not in the recognized set (legacy data, renamed platforms). It is never
	// accepted on upload.
	PlatformUnknown = "unknown"
)

// KnownPlatforms lists the accepted upload platforms.
var KnownPlatforms = []string{PlatformFacebook, PlatformTikTok, PlatformGoogle}

// NormalizePlatform lowercases and trims a platform tag. Exports and clients
// disagree on casing ("Facebook", "FACEBOOK"), so everything is compared in
// normalized form.
func NormalizePlatform(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// IsKnownPlatform reports whether the already-normalized platform tag is one
// of the accepted upload platforms.
func IsKnownPlatform(p string) bool {
	for _, known := range KnownPlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// CampaignReport is one ingested ad-platform row. Rows are created in bulk
// at upload time and never updated afterwards; raw_data keeps the original
// CSV row for audit.
type CampaignReport struct {
	ID     uint `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int  `json:"user_id" gorm:"column:user_id;not null;index"`

	Platform     string `json:"platform" gorm:"type:varchar(32);not null;index"`
	CampaignName string `json:"campaign_name" gorm:"column:campaign_name;type:varchar(255)"`
	ProductName  string `json:"product_name" gorm:"column:product_name;type:varchar(255);index"`

	AmountSpent float64 `json:"amount_spent" gorm:"column:amount_spent;not null;default:0"`
	Revenue     float64 `json:"revenue" gorm:"column:revenue;not null;default:0"`
	Conversions float64 `json:"conversions" gorm:"column:conversions;not null;default:0"`
	Clicks      float64 `json:"clicks" gorm:"column:clicks;not null;default:0"`
	Impressions float64 `json:"impressions" gorm:"column:impressions;not null;default:0"`

	RawData  datatypes.JSON `json:"raw_data" gorm:"column:raw_data"`
	FileName string         `json:"file_name" gorm:"column:file_name;type:varchar(255)"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (CampaignReport) TableName() string { return "campaign_reports" }
