package vehicle

import (
	"context"

	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type Repository interface {
	GetVehicle(
		ctx context.Context,
		id uint,
	) (*models.Vehicle, error)

	// DeleteVehicle removes the vehicle and its closed service history.
	// The open service check runs in the same transaction, with the
	// vehicle row locked, and fails with *OpenServicesError.
	DeleteVehicle(
		ctx context.Context,
		id uint,
	) error
}
