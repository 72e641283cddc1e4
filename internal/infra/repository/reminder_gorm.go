package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/reminder"
)

type ReminderGormRepository struct {
	db *gorm.DB
}

func NewReminderGormRepository(db *gorm.DB) *ReminderGormRepository {
	return &ReminderGormRepository{db: db}
}

// EnsureTables creates the reminder and subscription tables on databases
// that were migrated before reminders existed.
func (r *ReminderGormRepository) EnsureTables(ctx context.Context) error {
	m := r.db.WithContext(ctx).Migrator()

	for _, model := range []any{&models.ServiceReminder{}, &models.PushSubscription{}} {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return fmt.Errorf("create %T: %w", model, err)
		}
	}
	return nil
}

func (r *ReminderGormRepository) DueReminders(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.ServiceReminder, error) {

	var due []models.ServiceReminder
	if err := r.db.WithContext(ctx).
		Where("scheduled_for <= ? AND notification_sent = ?", now, false).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&due).Error; err != nil {
		return nil, err
	}
	return due, nil
}

func (r *ReminderGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {
	return first[models.Service](r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Vehicle").
		Preload("ServiceType").
		Where("id = ?", id))
}

func (r *ReminderGormRepository) ActiveAdminIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND active = ?", models.RoleAdmin, true).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ReminderGormRepository) MarkSent(
	ctx context.Context,
	id uint,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.ServiceReminder{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"notification_sent": true,
			"sent_at":           at,
		}).Error
}

var _ reminder.Repository = (*ReminderGormRepository)(nil)
