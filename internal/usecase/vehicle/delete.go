package vehicle

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/cache"
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/vehicle"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
)

type DeleteVehicle struct {
	repo  domain.Repository
	audit audit.Recorder
	cache cache.Cache
	log   logrus.FieldLogger
}

func NewDeleteVehicle(
	repo domain.Repository,
	rec audit.Recorder,
	c cache.Cache,
	log logrus.FieldLogger,
) *DeleteVehicle {
	return &DeleteVehicle{repo: repo, audit: rec, cache: c, log: log}
}

// Execute removes a vehicle unless it still has scheduled or in-progress
// services.
func (uc *DeleteVehicle) Execute(
	ctx context.Context,
	userID uint,
	vehicleID uint,
) error {

	// --------------------------------------------------
	// 1️⃣ Veículo
	// --------------------------------------------------
	v, err := uc.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	if v == nil {
		return httperr.ErrBusiness("vehicle_not_found")
	}

	// --------------------------------------------------
	// 2️⃣ Exclusão (bloqueada por serviços em aberto)
	// --------------------------------------------------
	if err := uc.repo.DeleteVehicle(ctx, v.ID); err != nil {
		return err
	}

	if err := uc.cache.Invalidate(ctx, cache.NamespaceDashboard); err != nil {
		uc.log.WithError(err).Warn("dashboard cache invalidation failed")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "vehicle_deleted",
		Entity:   "vehicle",
		EntityID: &v.ID,
		Metadata: map[string]any{"plate": v.Plate, "customer_id": v.CustomerID},
	})

	return nil
}
