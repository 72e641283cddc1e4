package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/cache"
	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

// Deps is shared by every service use case.
type Deps struct {
	Repo           domain.Repository
	Audit          audit.Recorder
	Cache          cache.Cache
	Log            logrus.FieldLogger
	ReminderOffset time.Duration
}

func (d Deps) invalidateDashboard(ctx context.Context) {
	if err := d.Cache.Invalidate(ctx, cache.NamespaceDashboard); err != nil {
		d.Log.WithError(err).Warn("dashboard cache invalidation failed")
	}
}

// syncReminder keeps the reminder row in step with the schedule: open
// services with a date and time get one, everything else loses it.
func (d Deps) syncReminder(ctx context.Context, s *models.Service) error {
	if s.IsOpen() {
		if at, ok := domain.ReminderTime(s, d.ReminderOffset); ok {
			return d.Repo.UpsertReminder(ctx, s.ID, at)
		}
	}
	return d.Repo.DeleteReminder(ctx, s.ID)
}

func (d Deps) record(actor domain.Actor, action string, s *models.Service, meta any) {
	d.Audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   action,
		Entity:   "service",
		EntityID: &s.ID,
		Metadata: meta,
	})
}

// load fetches a service the actor may see.
func (d Deps) load(ctx context.Context, actor domain.Actor, id uint) (*models.Service, error) {
	s, err := d.Repo.GetService(ctx, id, actor.Scope(nil))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return s, nil
}
