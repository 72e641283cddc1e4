package service

import (
	"context"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

// ======================================================
// LIST
// ======================================================

type ListPayments struct {
	Deps
}

func NewListPayments(deps Deps) *ListPayments {
	return &ListPayments{Deps: deps}
}

func (uc *ListPayments) Execute(
	ctx context.Context,
	actor domain.Actor,
	serviceID uint,
) ([]models.Payment, error) {

	s, err := uc.load(ctx, actor, serviceID)
	if err != nil {
		return nil, err
	}
	return uc.Repo.ListPayments(ctx, s.ID)
}

// ======================================================
// REGISTER (split by method)
// ======================================================

type RegisterPayment struct {
	Deps
}

func NewRegisterPayment(deps Deps) *RegisterPayment {
	return &RegisterPayment{Deps: deps}
}

func (uc *RegisterPayment) Execute(
	ctx context.Context,
	actor domain.Actor,
	serviceID uint,
	split domain.Split,
	notes string,
) (ServiceDetail, error) {

	s, err := uc.load(ctx, actor, serviceID)
	if err != nil {
		return ServiceDetail{}, err
	}
	if domain.Status(s.Status) == domain.StatusCancelled {
		return ServiceDetail{}, httperr.ErrBusiness("invalid_state")
	}

	payments, err := split.Payments()
	if err != nil {
		return ServiceDetail{}, err
	}

	now := timezone.Now()
	for i := range payments {
		payments[i].ServiceID = s.ID
		payments[i].PaidAt = &now
		payments[i].Notes = notes
	}

	if err := uc.Repo.RegisterPayments(ctx, s.ID, payments); err != nil {
		return ServiceDetail{}, err
	}

	// reload for the updated paid columns
	s, err = uc.load(ctx, actor, serviceID)
	if err != nil {
		return ServiceDetail{}, err
	}

	uc.invalidateDashboard(ctx)
	uc.record(actor, "payment_registered", s, map[string]any{
		"pix":   split.Pix,
		"cash":  split.Cash,
		"check": split.Check,
		"card":  split.Card,
	})

	return Detail(s), nil
}

// ======================================================
// DELETE
// ======================================================

type DeletePayment struct {
	Deps
}

func NewDeletePayment(deps Deps) *DeletePayment {
	return &DeletePayment{Deps: deps}
}

func (uc *DeletePayment) Execute(
	ctx context.Context,
	actor domain.Actor,
	serviceID uint,
	paymentID uint,
) (ServiceDetail, error) {

	s, err := uc.load(ctx, actor, serviceID)
	if err != nil {
		return ServiceDetail{}, err
	}

	p, err := uc.Repo.GetPayment(ctx, s.ID, paymentID)
	if err != nil {
		return ServiceDetail{}, err
	}
	if p == nil {
		return ServiceDetail{}, httperr.ErrBusiness("payment_not_found")
	}

	if err := uc.Repo.DeletePayment(ctx, p); err != nil {
		return ServiceDetail{}, err
	}

	s, err = uc.load(ctx, actor, serviceID)
	if err != nil {
		return ServiceDetail{}, err
	}

	uc.invalidateDashboard(ctx)
	uc.record(actor, "payment_deleted", s, map[string]any{
		"payment_id": p.ID,
		"amount":     p.Amount,
		"method":     p.Method,
	})

	return Detail(s), nil
}
