package models

import "time"

type ServiceReminder struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"uniqueIndex;not null" json:"service_id"`

	ScheduledFor     time.Time  `gorm:"index;not null" json:"scheduled_for"`
	NotificationSent bool       `gorm:"index;default:false" json:"notification_sent"`
	SentAt           *time.Time `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PushSubscription struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	Endpoint  string `gorm:"type:text;uniqueIndex;not null" json:"endpoint"`
	P256dh    string `gorm:"size:255;not null" json:"-"`
	Auth      string `gorm:"size:255;not null" json:"-"`
	UserAgent string `gorm:"size:255" json:"user_agent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
