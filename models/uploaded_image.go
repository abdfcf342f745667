package models

import "time"

// UploadedImage records a stored featured image so orphaned files can be audited.
type UploadedImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	FilePath  string    `gorm:"size:512;not null" json:"-"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}
