package models

import (
	"time"
)

const (
	UploadStatusCompleted = "completed"
	UploadStatusFailed    = "failed"
)

// UploadHistory is the audit record of one ingestion event, separate from
// the ingested rows themselves. Written best-effort after the persistence
// outcome is known: row_count always equals the number of campaign report
// rows inserted in that batch (0 when persistence failed).
type UploadHistory struct {
	ID     uint `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID int  `json:"user_id" gorm:"column:user_id;not null;index"`

	FileName     string  `json:"file_name" gorm:"column:file_name;type:varchar(255)"`
	Platform     string  `json:"platform" gorm:"type:varchar(32);not null"`
	RowCount     int     `json:"row_count" gorm:"column:row_count;not null;default:0"`
	Status       string  `json:"status" gorm:"type:varchar(20);not null;default:'completed'"`
	ErrorMessage *string `json:"error_message,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (UploadHistory) TableName() string { return "upload_history" }
