package models

import "time"

type Photo struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`

	ObjectKey   string `gorm:"size:255;not null" json:"-"`
	ContentType string `gorm:"size:50" json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Caption     string `gorm:"size:255" json:"caption"`

	URL string `gorm:"-" json:"url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
