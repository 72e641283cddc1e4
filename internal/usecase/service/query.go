package service

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

// ServiceDetail is a service with its derived payment state.
type ServiceDetail struct {
	*models.Service
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
	TotalPaid     float64              `json:"total_paid"`
	Balance       float64              `json:"balance"`
}

func Detail(s *models.Service) ServiceDetail {
	return ServiceDetail{
		Service:       s,
		PaymentStatus: domain.PaymentStatusOf(s),
		TotalPaid:     domain.TotalPaid(s),
		Balance:       domain.Balance(s),
	}
}

// ======================================================
// GET
// ======================================================

type GetService struct {
	Deps
}

func NewGetService(deps Deps) *GetService {
	return &GetService{Deps: deps}
}

func (uc *GetService) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (ServiceDetail, error) {

	s, err := uc.load(ctx, actor, id)
	if err != nil {
		return ServiceDetail{}, err
	}
	return Detail(s), nil
}

// ======================================================
// LIST
// ======================================================

// ListServicesInput picks one window: a day, a month, or neither.
type ListServicesInput struct {
	Date         string
	Year         int
	Month        time.Month
	Status       string
	CustomerID   uint
	VehicleID    uint
	TechnicianID *uint
}

type ListServices struct {
	Deps
}

func NewListServices(deps Deps) *ListServices {
	return &ListServices{Deps: deps}
}

func (uc *ListServices) Execute(
	ctx context.Context,
	actor domain.Actor,
	in ListServicesInput,
) ([]ServiceDetail, error) {

	f := domain.ListFilter{
		Scope:      actor.Scope(in.TechnicianID),
		CustomerID: in.CustomerID,
		VehicleID:  in.VehicleID,
	}

	switch {
	case in.Date != "":
		if !timezone.IsValidDate(in.Date) {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		f.From, f.To = in.Date, timezone.AddDays(in.Date, 1)
	case in.Year > 0:
		if in.Month < time.January || in.Month > time.December {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}
		f.From, f.To = timezone.MonthRange(in.Year, in.Month)
	}

	if in.Status != "" {
		st, ok := domain.ParseStatus(in.Status)
		if !ok {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		f.Status = string(st)
	}

	services, err := uc.Repo.ListServices(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]ServiceDetail, 0, len(services))
	for i := range services {
		out = append(out, Detail(&services[i]))
	}
	return out, nil
}
