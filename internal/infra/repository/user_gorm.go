package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// HasPermission is true for active admins and for active users granted
// the named permission.
func (r *UserGormRepository) HasPermission(
	ctx context.Context,
	userID uint,
	name string,
) (bool, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Permissions", "name = ?", name).
		Where("id = ? AND active = ?", userID, true).
		Limit(1).
		Find(&user).Error; err != nil {
		return false, err
	}
	if user.ID == 0 {
		return false, nil
	}
	return user.HasPermission(name), nil
}
