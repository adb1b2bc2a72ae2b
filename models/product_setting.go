package models

import (
	"time"
)

// ProductSetting is per-product configuration. The product name is the
// natural key, unique per owner; the multiplier derives revenue at ingestion
// for exports that carry conversions but no revenue column.
type ProductSetting struct {
	ID     uint `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int  `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_product_settings_owner_name"`

	ProductName          string  `json:"product_name" gorm:"column:product_name;type:varchar(255);not null;uniqueIndex:idx_product_settings_owner_name"`
	RevenuePerConversion float64 `json:"revenue_per_conversion" gorm:"column:revenue_per_conversion;not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductSetting) TableName() string { return "product_settings" }
