package models

import "time"

type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name string `gorm:"size:120;not null" json:"name"`

	// CPF or CNPJ digits. Optional, unique when present.
	Document *string `gorm:"size:14;uniqueIndex" json:"document"`

	Phone   string `gorm:"size:20" json:"phone"`
	Email   string `gorm:"size:100" json:"email"`
	Address string `gorm:"size:255" json:"address"`
	Notes   string `gorm:"type:text" json:"notes"`

	LoyaltyPoints int `gorm:"default:0" json:"loyalty_points"`

	Vehicles []Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"vehicles,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
