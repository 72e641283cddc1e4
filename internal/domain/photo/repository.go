package photo

import (
	"context"

	service "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

type Repository interface {
	GetService(
		ctx context.Context,
		id uint,
		scope service.Scope,
	) (*models.Service, error)

	CreatePhoto(
		ctx context.Context,
		p *models.Photo,
	) error

	ListPhotos(
		ctx context.Context,
		serviceID uint,
	) ([]models.Photo, error)

	GetPhoto(
		ctx context.Context,
		serviceID uint,
		photoID uint,
	) (*models.Photo, error)

	DeletePhoto(
		ctx context.Context,
		id uint,
	) error
}
