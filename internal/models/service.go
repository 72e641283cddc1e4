package models

import "time"

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer,omitempty"`

	VehicleID uint     `gorm:"index;not null" json:"vehicle_id"`
	Vehicle   *Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"vehicle,omitempty"`

	ServiceTypeID uint         `gorm:"index;not null" json:"service_type_id"`
	ServiceType   *ServiceType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service_type,omitempty"`

	TechnicianID *uint `gorm:"index" json:"technician_id"`
	Technician   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"technician,omitempty"`

	Status string `gorm:"size:20;index;default:'scheduled'" json:"status"`

	// YYYY-MM-DD and HH:MM in shop time. Both optional: walk-ins have no slot.
	ScheduledDate *string `gorm:"size:10;index" json:"scheduled_date"`
	ScheduledTime *string `gorm:"size:5" json:"scheduled_time"`

	EstimatedValue *string `gorm:"type:numeric(10,2)" json:"estimated_value"`
	FinalValue     *string `gorm:"type:numeric(10,2)" json:"final_value"`

	PixPaid   string `gorm:"type:numeric(10,2);default:0" json:"pix_paid"`
	CashPaid  string `gorm:"type:numeric(10,2);default:0" json:"cash_paid"`
	CheckPaid string `gorm:"type:numeric(10,2);default:0" json:"check_paid"`
	CardPaid  string `gorm:"type:numeric(10,2);default:0" json:"card_paid"`

	Notes string `gorm:"type:text" json:"notes"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Items    []ServiceItem `gorm:"constraint:OnDelete:CASCADE;" json:"items,omitempty"`
	Payments []Payment     `gorm:"constraint:OnDelete:CASCADE;" json:"payments,omitempty"`
	Photos   []Photo       `gorm:"constraint:OnDelete:CASCADE;" json:"photos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) IsOpen() bool {
	return s.Status == StatusScheduled || s.Status == StatusInProgress
}

type ServiceItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`

	Description string `gorm:"size:255;not null" json:"description"`
	Quantity    int    `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   string `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice  string `gorm:"type:numeric(10,2);not null" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
}
