package models

import "time"

type Vehicle struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `json:"customer,omitempty"`

	Plate   string `gorm:"size:10;uniqueIndex;not null" json:"plate"`
	Brand   string `gorm:"size:60" json:"brand"`
	Model   string `gorm:"size:60" json:"model"`
	Year    int    `json:"year"`
	Color   string `gorm:"size:30" json:"color"`
	Mileage int    `json:"mileage"`
	Notes   string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
