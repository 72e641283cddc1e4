package service

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
	"github.com/BruksfildServices01/garage-manager/internal/payments"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

type PixChargeResult struct {
	Payment models.Payment      `json:"payment"`
	Charge  *payments.PixCharge `json:"charge"`
}

// ======================================================
// CREATE
// ======================================================

type CreatePixCharge struct {
	Deps
	gateway payments.PixGateway
}

func NewCreatePixCharge(deps Deps, gateway payments.PixGateway) *CreatePixCharge {
	return &CreatePixCharge{Deps: deps, gateway: gateway}
}

// Execute charges amount, or the open balance when amount is empty. The
// payment is stored pending and only counts once the gateway approves it.
func (uc *CreatePixCharge) Execute(
	ctx context.Context,
	actor domain.Actor,
	serviceID uint,
	amount string,
) (*PixChargeResult, error) {

	// --------------------------------------------------
	// 1️⃣ Serviço
	// --------------------------------------------------
	s, err := uc.load(ctx, actor, serviceID)
	if err != nil {
		return nil, err
	}
	if domain.Status(s.Status) == domain.StatusCancelled {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	// --------------------------------------------------
	// 2️⃣ Valor
	// --------------------------------------------------
	value := domain.Balance(s)
	if amount != "" {
		if !money.Valid(amount) {
			return nil, httperr.ErrBusiness("invalid_amount")
		}
		value = money.Parse(amount)
	}
	if value <= 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	// --------------------------------------------------
	// 3️⃣ Cobrança no gateway
	// --------------------------------------------------
	customer, err := uc.Repo.GetCustomer(ctx, s.CustomerID)
	if err != nil {
		return nil, err
	}
	email := ""
	if customer != nil {
		email = customer.Email
	}

	charge, err := uc.gateway.CreatePix(ctx, payments.PixRequest{
		Amount:            money.Round(value),
		Description:       fmt.Sprintf("Serviço #%d", s.ID),
		ExternalReference: fmt.Sprintf("service-%d", s.ID),
		PayerEmail:        email,
	})
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			return nil, httperr.ErrBusiness("pix_unavailable")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Pagamento pendente
	// --------------------------------------------------
	p := models.Payment{
		ServiceID:  s.ID,
		Amount:     money.Format(value),
		Method:     models.PaymentMethodPix,
		Status:     models.PaymentStatusPending,
		ExternalID: charge.ID,
	}
	if err := uc.Repo.CreatePendingPayment(ctx, &p); err != nil {
		return nil, err
	}

	uc.record(actor, "pix_charge_created", s, map[string]any{
		"payment_id":  p.ID,
		"external_id": charge.ID,
		"amount":      p.Amount,
	})

	return &PixChargeResult{Payment: p, Charge: charge}, nil
}

// ======================================================
// REFRESH
// ======================================================

type RefreshPixCharge struct {
	Deps
	gateway payments.PixGateway
}

func NewRefreshPixCharge(deps Deps, gateway payments.PixGateway) *RefreshPixCharge {
	return &RefreshPixCharge{Deps: deps, gateway: gateway}
}

func (uc *RefreshPixCharge) Execute(
	ctx context.Context,
	actor domain.Actor,
	serviceID uint,
	paymentID uint,
) (*PixChargeResult, error) {

	s, err := uc.load(ctx, actor, serviceID)
	if err != nil {
		return nil, err
	}

	p, err := uc.Repo.GetPayment(ctx, s.ID, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ExternalID == "" {
		return nil, httperr.ErrBusiness("payment_not_found")
	}
	if p.Status != models.PaymentStatusPending {
		return nil, httperr.ErrBusiness("pix_not_pending")
	}

	charge, err := uc.gateway.GetPix(ctx, p.ExternalID)
	if err != nil {
		if errors.Is(err, payments.ErrNotConfigured) {
			return nil, httperr.ErrBusiness("pix_unavailable")
		}
		return nil, err
	}

	if charge.Status == payments.PixApproved {
		if err := uc.Repo.ConfirmPayment(ctx, p, timezone.Now()); err != nil {
			return nil, err
		}

		uc.invalidateDashboard(ctx)
		uc.record(actor, "pix_charge_confirmed", s, map[string]any{
			"payment_id":  p.ID,
			"external_id": p.ExternalID,
		})
	}

	return &PixChargeResult{Payment: *p, Charge: charge}, nil
}
