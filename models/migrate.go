package models

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the service owns. Ran once at
// startup and by test fixtures against their in-memory databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserToken{},
		&CampaignReport{},
		&UploadHistory{},
		&ProductSetting{},
	)
}
