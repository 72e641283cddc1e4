package models

import "time"

const (
	PaymentMethodPix   = "pix"
	PaymentMethodCash  = "cash"
	PaymentMethodCheck = "check"
	PaymentMethodCard  = "card"

	PaymentStatusConfirmed = "confirmed"
	PaymentStatusPending   = "pending"
)

type Payment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`

	Amount string `gorm:"type:numeric(10,2);not null" json:"amount"`
	Method string `gorm:"size:10;not null" json:"method"`
	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	// Mercado Pago payment id for PIX charges.
	ExternalID string `gorm:"size:40;index" json:"external_id,omitempty"`

	PaidAt *time.Time `json:"paid_at"`
	Notes  string     `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}
