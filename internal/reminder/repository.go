package reminder

import (
	"context"
	"time"

	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/notification"
)

type Repository interface {
	// EnsureTables creates the reminder and subscription tables when
	// they are missing.
	EnsureTables(ctx context.Context) error

	DueReminders(
		ctx context.Context,
		now time.Time,
		limit int,
	) ([]models.ServiceReminder, error)

	// GetService loads the service with customer, vehicle and type.
	// A deleted service yields (nil, nil).
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	ActiveAdminIDs(ctx context.Context) ([]uint, error)

	MarkSent(
		ctx context.Context,
		id uint,
		at time.Time,
	) error
}

// Notifier is satisfied by *notification.Notifier.
type Notifier interface {
	NotifyUsers(ctx context.Context, userIDs []uint, p notification.Payload) (notification.Result, error)
}
