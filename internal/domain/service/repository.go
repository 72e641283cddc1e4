package service

import (
	"context"
	"time"

	"github.com/BruksfildServices01/garage-manager/internal/models"
)

// Scope restricts which services a caller may see. A nil TechnicianID
// means every service.
type Scope struct {
	TechnicianID *uint
}

type ListFilter struct {
	Scope

	// Date range on scheduled_date, From inclusive, To exclusive.
	From string
	To   string

	Status     string
	CustomerID uint
	VehicleID  uint
}

type Repository interface {
	// -------- Lookups --------
	GetCustomer(
		ctx context.Context,
		id uint,
	) (*models.Customer, error)

	GetVehicle(
		ctx context.Context,
		id uint,
	) (*models.Vehicle, error)

	GetServiceType(
		ctx context.Context,
		id uint,
	) (*models.ServiceType, error)

	AddLoyaltyPoints(
		ctx context.Context,
		customerID uint,
		points int,
	) error

	// -------- Service --------
	CreateService(
		ctx context.Context,
		s *models.Service,
	) error

	GetService(
		ctx context.Context,
		id uint,
		scope Scope,
	) (*models.Service, error)

	// UpdateService writes s back only while the stored status is one of
	// expect, and fails with invalid_state otherwise.
	UpdateService(
		ctx context.Context,
		s *models.Service,
		expect []string,
	) error

	ReplaceItems(
		ctx context.Context,
		serviceID uint,
		items []models.ServiceItem,
	) error

	DeleteService(
		ctx context.Context,
		id uint,
	) error

	ListServices(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Service, error)

	// -------- Payments --------
	ListPayments(
		ctx context.Context,
		serviceID uint,
	) ([]models.Payment, error)

	GetPayment(
		ctx context.Context,
		serviceID uint,
		paymentID uint,
	) (*models.Payment, error)

	// RegisterPayments stores confirmed payments and bumps the matching
	// paid columns in one transaction.
	RegisterPayments(
		ctx context.Context,
		serviceID uint,
		payments []models.Payment,
	) error

	// CreatePendingPayment stores a payment that does not count yet.
	CreatePendingPayment(
		ctx context.Context,
		p *models.Payment,
	) error

	// ConfirmPayment flips a pending payment and credits its column.
	ConfirmPayment(
		ctx context.Context,
		p *models.Payment,
		paidAt time.Time,
	) error

	// DeletePayment removes the stored row and, if it was confirmed,
	// takes its amount off the paid column. p is refreshed from the
	// deleted row.
	DeletePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	// -------- Reminders --------
	UpsertReminder(
		ctx context.Context,
		serviceID uint,
		scheduledFor time.Time,
	) error

	DeleteReminder(
		ctx context.Context,
		serviceID uint,
	) error
}
