package models

import "time"

type ServiceType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Description  string `gorm:"size:255" json:"description"`
	DefaultPrice string `gorm:"type:numeric(10,2);default:0" json:"default_price"`

	// Days until the customer should come back for the same service.
	RecurringIntervalDays *int `json:"recurring_interval_days"`
	LoyaltyPoints         int  `gorm:"default:0" json:"loyalty_points"`
	Active                bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
