package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	photo "github.com/BruksfildServices01/garage-manager/internal/domain/photo"
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

// first runs q.First and turns "not found" into (nil, nil).
func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *ServiceGormRepository) GetCustomer(
	ctx context.Context,
	id uint,
) (*models.Customer, error) {
	return first[models.Customer](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ServiceGormRepository) GetVehicle(
	ctx context.Context,
	id uint,
) (*models.Vehicle, error) {
	return first[models.Vehicle](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ServiceGormRepository) GetServiceType(
	ctx context.Context,
	id uint,
) (*models.ServiceType, error) {
	return first[models.ServiceType](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ServiceGormRepository) AddLoyaltyPoints(
	ctx context.Context,
	customerID uint,
	points int,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points)).
		Error
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func scoped(q *gorm.DB, scope domain.Scope) *gorm.DB {
	if scope.TechnicianID != nil {
		q = q.Where("technician_id = ?", *scope.TechnicianID)
	}
	return q
}

func (r *ServiceGormRepository) CreateService(
	ctx context.Context,
	s *models.Service,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ServiceGormRepository) GetService(
	ctx context.Context,
	id uint,
	scope domain.Scope,
) (*models.Service, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("ServiceType").
		Preload("Technician").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id)

	return first[models.Service](scoped(q, scope))
}

// serviceColumns are the columns UpdateService writes. Paid totals move
// only through the payment methods.
var serviceColumns = []string{
	"service_type_id",
	"technician_id",
	"status",
	"scheduled_date",
	"scheduled_time",
	"estimated_value",
	"final_value",
	"notes",
	"started_at",
	"completed_at",
	"cancelled_at",
	"updated_at",
}

func (r *ServiceGormRepository) UpdateService(
	ctx context.Context,
	s *models.Service,
	expect []string,
) error {

	res := r.db.WithContext(ctx).
		Model(s).
		Where("status IN ?", expect).
		Select(serviceColumns).
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	// someone else moved the service first
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func (r *ServiceGormRepository) ReplaceItems(
	ctx context.Context,
	serviceID uint,
	items []models.ServiceItem,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", serviceID).Delete(&models.ServiceItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].ServiceID = serviceID
		}
		return tx.Create(&items).Error
	})
}

func (r *ServiceGormRepository) DeleteService(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&models.ServiceReminder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Service{}, id).Error
	})
}

func (r *ServiceGormRepository) ListServices(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("ServiceType")

	q = scoped(q, f.Scope)
	if f.From != "" {
		q = q.Where("scheduled_date >= ? AND scheduled_date < ?", f.From, f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.VehicleID != 0 {
		q = q.Where("vehicle_id = ?", f.VehicleID)
	}

	var services []models.Service
	if err := q.
		Order("scheduled_date ASC NULLS LAST").
		Order("scheduled_time ASC NULLS LAST").
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

// shiftPaid applies sign ("+" or "-") and amount to the paid column of
// the payment method.
func shiftPaid(tx *gorm.DB, serviceID uint, method, amount string, sign string) error {
	col, ok := domain.PaidColumn(method)
	if !ok {
		return fmt.Errorf("unknown payment method %q", method)
	}
	return tx.Model(&models.Service{}).
		Where("id = ?", serviceID).
		UpdateColumn(col, gorm.Expr(col+" "+sign+" ?::numeric", amount)).
		Error
}

func (r *ServiceGormRepository) ListPayments(
	ctx context.Context,
	serviceID uint,
) ([]models.Payment, error) {

	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *ServiceGormRepository) GetPayment(
	ctx context.Context,
	serviceID uint,
	paymentID uint,
) (*models.Payment, error) {
	return first[models.Payment](r.db.WithContext(ctx).
		Where("id = ? AND service_id = ?", paymentID, serviceID))
}

func (r *ServiceGormRepository) RegisterPayments(
	ctx context.Context,
	serviceID uint,
	payments []models.Payment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// serialize concurrent payments on the same service
		var s models.Service
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&s, serviceID).Error; err != nil {
			return err
		}

		for i := range payments {
			payments[i].ServiceID = serviceID
			if err := tx.Create(&payments[i]).Error; err != nil {
				return err
			}
			if err := shiftPaid(tx, serviceID, payments[i].Method, payments[i].Amount, "+"); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ServiceGormRepository) CreatePendingPayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ServiceGormRepository) ConfirmPayment(
	ctx context.Context,
	p *models.Payment,
	paidAt time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", p.ID, models.PaymentStatusPending).
			Updates(map[string]any{
				"status":  models.PaymentStatusConfirmed,
				"paid_at": paidAt,
			})
		if res.Error != nil {
			return res.Error
		}
		// already confirmed by a concurrent refresh
		if res.RowsAffected == 0 {
			return nil
		}

		if err := shiftPaid(tx, p.ServiceID, p.Method, p.Amount, "+"); err != nil {
			return err
		}

		p.Status = models.PaymentStatusConfirmed
		p.PaidAt = &paidAt
		return nil
	})
}

func (r *ServiceGormRepository) DeletePayment(
	ctx context.Context,
	p *models.Payment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the caller's copy may predate a pix confirmation
		var locked models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND service_id = ?", p.ID, p.ServiceID).
			First(&locked).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("payment_not_found")
		}
		if err != nil {
			return err
		}

		res := tx.Delete(&models.Payment{}, locked.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return httperr.ErrBusiness("payment_not_found")
		}

		*p = locked
		if locked.Status != models.PaymentStatusConfirmed {
			return nil
		}
		return shiftPaid(tx, locked.ServiceID, locked.Method, locked.Amount, "-")
	})
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *ServiceGormRepository) UpsertReminder(
	ctx context.Context,
	serviceID uint,
	scheduledFor time.Time,
) error {

	rem := models.ServiceReminder{
		ServiceID:    serviceID,
		ScheduledFor: scheduledFor,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "service_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"scheduled_for":     scheduledFor,
				"notification_sent": false,
				"sent_at":           nil,
				"updated_at":        time.Now(),
			}),
		}).
		Create(&rem).Error
}

func (r *ServiceGormRepository) DeleteReminder(
	ctx context.Context,
	serviceID uint,
) error {
	return r.db.WithContext(ctx).
		Where("service_id = ? AND notification_sent = ?", serviceID, false).
		Delete(&models.ServiceReminder{}).Error
}

// --------------------------------------------------
// Photos
// --------------------------------------------------

func (r *ServiceGormRepository) CreatePhoto(
	ctx context.Context,
	p *models.Photo,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ServiceGormRepository) ListPhotos(
	ctx context.Context,
	serviceID uint,
) ([]models.Photo, error) {

	var photos []models.Photo
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at ASC").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *ServiceGormRepository) GetPhoto(
	ctx context.Context,
	serviceID uint,
	photoID uint,
) (*models.Photo, error) {
	return first[models.Photo](r.db.WithContext(ctx).
		Where("id = ? AND service_id = ?", photoID, serviceID))
}

func (r *ServiceGormRepository) DeletePhoto(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Photo{}, id).Error
}

// Compile-time check
var (
	_ domain.Repository = (*ServiceGormRepository)(nil)
	_ photo.Repository  = (*ServiceGormRepository)(nil)
)
