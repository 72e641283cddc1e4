package service

import (
	"context"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

// ======================================================
// START
// ======================================================

type StartService struct {
	Deps
}

func NewStartService(deps Deps) *StartService {
	return &StartService{Deps: deps}
}

func (uc *StartService) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Service, error) {

	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Start(s, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateService(ctx, s, []string{string(domain.StatusScheduled)}); err != nil {
		return nil, err
	}

	uc.invalidateDashboard(ctx)
	uc.record(actor, "service_started", s, nil)

	return s, nil
}

// ======================================================
// COMPLETE
// ======================================================

type CompleteService struct {
	Deps
}

func NewCompleteService(deps Deps) *CompleteService {
	return &CompleteService{Deps: deps}
}

func (uc *CompleteService) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	finalValue *string,
) (*models.Service, error) {

	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if finalValue != nil {
		v, err := normalizeAmount(*finalValue)
		if err != nil {
			return nil, err
		}
		finalValue = &v
	}

	if err := domain.Complete(s, finalValue, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateService(ctx, s, domain.OpenStatuses); err != nil {
		return nil, err
	}

	// Only the request that won the status update gets here, so points
	// are added once per completed service.
	st, err := uc.Repo.GetServiceType(ctx, s.ServiceTypeID)
	if err != nil {
		uc.Log.WithError(err).WithField("service_id", s.ID).Warn("failed to load service type for loyalty points")
	} else if st != nil && st.LoyaltyPoints > 0 {
		if err := uc.Repo.AddLoyaltyPoints(ctx, s.CustomerID, st.LoyaltyPoints); err != nil {
			uc.Log.WithError(err).WithField("customer_id", s.CustomerID).Warn("failed to add loyalty points")
		}
	}

	if err := uc.Repo.DeleteReminder(ctx, s.ID); err != nil {
		uc.Log.WithError(err).WithField("service_id", s.ID).Warn("failed to drop reminder")
	}

	uc.invalidateDashboard(ctx)
	uc.record(actor, "service_completed", s, map[string]any{"final_value": s.FinalValue})

	return s, nil
}

// ======================================================
// CANCEL
// ======================================================

type CancelService struct {
	Deps
}

func NewCancelService(deps Deps) *CancelService {
	return &CancelService{Deps: deps}
}

func (uc *CancelService) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Service, error) {

	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(s, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.Repo.UpdateService(ctx, s, domain.OpenStatuses); err != nil {
		return nil, err
	}

	if err := uc.Repo.DeleteReminder(ctx, s.ID); err != nil {
		uc.Log.WithError(err).WithField("service_id", s.ID).Warn("failed to drop reminder")
	}

	uc.invalidateDashboard(ctx)
	uc.record(actor, "service_cancelled", s, nil)

	return s, nil
}
