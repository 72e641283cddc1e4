package service

import (
	"context"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
)

type DeleteService struct {
	Deps
}

func NewDeleteService(deps Deps) *DeleteService {
	return &DeleteService{Deps: deps}
}

func (uc *DeleteService) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) error {

	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := domain.CanDelete(domain.Status(s.Status)); err != nil {
		return err
	}

	if err := uc.Repo.DeleteService(ctx, s.ID); err != nil {
		return err
	}

	uc.invalidateDashboard(ctx)
	uc.record(actor, "service_deleted", s, map[string]any{"status": s.Status})

	return nil
}
