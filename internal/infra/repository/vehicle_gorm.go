package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	servicedomain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/vehicle"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type VehicleGormRepository struct {
	db *gorm.DB
}

func NewVehicleGormRepository(db *gorm.DB) *VehicleGormRepository {
	return &VehicleGormRepository{db: db}
}

func (r *VehicleGormRepository) GetVehicle(
	ctx context.Context,
	id uint,
) (*models.Vehicle, error) {
	return first[models.Vehicle](r.db.WithContext(ctx).Where("id = ?", id))
}

// countOpenServices counts scheduled and in-progress services of the
// vehicle.
func countOpenServices(tx *gorm.DB, vehicleID uint) (int64, error) {
	var count int64
	if err := tx.Model(&models.Service{}).
		Where("vehicle_id = ? AND status IN ?", vehicleID, servicedomain.OpenStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VehicleGormRepository) DeleteVehicle(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FOR UPDATE conflicts with the key share lock a service insert
		// takes on its vehicle, so no open service can appear below.
		v, err := first[models.Vehicle](tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
		if err != nil {
			return err
		}
		if v == nil {
			return httperr.ErrBusiness("vehicle_not_found")
		}

		open, err := countOpenServices(tx, v.ID)
		if err != nil {
			return err
		}
		if err := domain.CanDelete(v.ID, open); err != nil {
			return err
		}

		ids := tx.Model(&models.Service{}).Select("id").Where("vehicle_id = ?", v.ID)

		if err := tx.Where("service_id IN (?)", ids).Delete(&models.ServiceReminder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", v.ID).Delete(&models.Service{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vehicle{}, v.ID).Error
	})
}

var _ domain.Repository = (*VehicleGormRepository)(nil)
