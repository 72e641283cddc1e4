package service

import (
	"context"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
)

// UpdateServiceInput is a partial update. Nil fields are left alone.
// ClearSchedule removes the date and time; Items, when non-nil, replaces
// every line item.
type UpdateServiceInput struct {
	ServiceTypeID  *uint
	TechnicianID   *uint
	ScheduledDate  *string
	ScheduledTime  *string
	ClearSchedule  bool
	EstimatedValue *string
	FinalValue     *string
	Notes          *string
	Items          *[]ItemInput
}

type UpdateService struct {
	Deps
}

func NewUpdateService(deps Deps) *UpdateService {
	return &UpdateService{Deps: deps}
}

func (uc *UpdateService) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	in UpdateServiceInput,
) (*models.Service, error) {

	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(domain.Status(s.Status)); err != nil {
		return nil, err
	}

	// -------- tipo --------
	if in.ServiceTypeID != nil && *in.ServiceTypeID != s.ServiceTypeID {
		st, err := uc.Repo.GetServiceType(ctx, *in.ServiceTypeID)
		if err != nil {
			return nil, err
		}
		if st == nil || !st.Active {
			return nil, httperr.ErrBusiness("service_type_not_found")
		}
		s.ServiceTypeID = st.ID
		s.ServiceType = st
	}

	// -------- técnico (somente admin reatribui) --------
	if in.TechnicianID != nil {
		if !actor.Admin {
			return nil, httperr.ErrBusiness("forbidden")
		}
		s.TechnicianID = in.TechnicianID
		s.Technician = nil
	}

	// -------- agenda --------
	rescheduled := false
	if in.ClearSchedule {
		s.ScheduledDate, s.ScheduledTime = nil, nil
		rescheduled = true
	} else if in.ScheduledDate != nil || in.ScheduledTime != nil {
		date, hm := s.ScheduledDate, s.ScheduledTime
		if in.ScheduledDate != nil {
			date = in.ScheduledDate
		}
		if in.ScheduledTime != nil {
			hm = in.ScheduledTime
		}
		if err := validateSchedule(date, hm); err != nil {
			return nil, err
		}
		s.ScheduledDate, s.ScheduledTime = date, hm
		rescheduled = true
	}

	// -------- valores --------
	if in.EstimatedValue != nil {
		v, err := normalizeAmount(*in.EstimatedValue)
		if err != nil {
			return nil, err
		}
		s.EstimatedValue = &v
	}
	if in.FinalValue != nil {
		v, err := normalizeAmount(*in.FinalValue)
		if err != nil {
			return nil, err
		}
		s.FinalValue = &v
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}

	// -------- itens --------
	var items []models.ServiceItem
	if in.Items != nil {
		items, _, err = domain.BuildItems(toItems(*in.Items))
		if err != nil {
			return nil, err
		}
	}

	if err := uc.Repo.UpdateService(ctx, s, domain.OpenStatuses); err != nil {
		return nil, err
	}

	if in.Items != nil {
		if err := uc.Repo.ReplaceItems(ctx, s.ID, items); err != nil {
			return nil, err
		}
		s.Items = items
	}

	if rescheduled {
		if err := uc.syncReminder(ctx, s); err != nil {
			uc.Log.WithError(err).WithField("service_id", s.ID).Warn("failed to reschedule reminder")
		}
	}

	uc.invalidateDashboard(ctx)
	uc.record(actor, "service_updated", s, map[string]any{"rescheduled": rescheduled})

	return s, nil
}

func normalizeAmount(v string) (string, error) {
	if !money.Valid(v) || money.Parse(v) < 0 {
		return "", httperr.ErrBusiness("invalid_amount")
	}
	return money.Format(money.Parse(v)), nil
}
