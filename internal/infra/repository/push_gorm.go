package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/notification"
)

type PushGormRepository struct {
	db *gorm.DB
}

func NewPushGormRepository(db *gorm.DB) *PushGormRepository {
	return &PushGormRepository{db: db}
}

// Upsert keys on the endpoint: a browser that re-subscribes, possibly as
// another user, replaces its previous row.
func (r *PushGormRepository) Upsert(
	ctx context.Context,
	sub *models.PushSubscription,
) error {

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.Assignments(map[string]any{
				"user_id":    sub.UserID,
				"p256dh":     sub.P256dh,
				"auth":       sub.Auth,
				"user_agent": sub.UserAgent,
				"updated_at": time.Now(),
			}),
		}).
		Create(sub).Error
}

func (r *PushGormRepository) DeleteByEndpoint(
	ctx context.Context,
	userID uint,
	endpoint string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{})
	return res.RowsAffected > 0, res.Error
}

func (r *PushGormRepository) ListForUsers(
	ctx context.Context,
	userIDs []uint,
) ([]models.PushSubscription, error) {

	if len(userIDs) == 0 {
		return nil, nil
	}

	var subs []models.PushSubscription
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *PushGormRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PushSubscription{}, id).Error
}

var _ notification.SubscriptionStore = (*PushGormRepository)(nil)
