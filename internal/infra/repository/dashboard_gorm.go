package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/dashboard"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type DashboardGormRepository struct {
	db *gorm.DB
}

func NewDashboardGormRepository(db *gorm.DB) *DashboardGormRepository {
	return &DashboardGormRepository{db: db}
}

func (r *DashboardGormRepository) ListServices(
	ctx context.Context,
	technicianID *uint,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("ServiceType")

	if technicianID != nil {
		q = q.Where("technician_id = ?", *technicianID)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *DashboardGormRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *DashboardGormRepository) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

var _ domain.Repository = (*DashboardGormRepository)(nil)
