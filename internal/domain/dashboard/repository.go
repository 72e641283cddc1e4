package dashboard

import (
	"context"

	"github.com/BruksfildServices01/garage-manager/internal/models"
)

// Repository feeds the aggregations. Services come back with Customer,
// Vehicle and ServiceType preloaded.
type Repository interface {
	ListServices(
		ctx context.Context,
		technicianID *uint,
	) ([]models.Service, error)

	ListCustomers(
		ctx context.Context,
	) ([]models.Customer, error)

	ListVehicles(
		ctx context.Context,
	) ([]models.Vehicle, error)
}
