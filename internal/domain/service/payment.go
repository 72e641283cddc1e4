package service

import (
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// RealizedValue is what the service is worth: the final value when it is
// present and well formed, the estimate otherwise.
func RealizedValue(s *models.Service) float64 {
	if money.ValidPtr(s.FinalValue) {
		return money.ParsePtr(s.FinalValue)
	}
	return money.ParsePtr(s.EstimatedValue)
}

func TotalPaid(s *models.Service) float64 {
	return money.Round(money.Sum(s.PixPaid, s.CashPaid, s.CheckPaid, s.CardPaid))
}

func PaymentStatusOf(s *models.Service) PaymentStatus {
	paid := TotalPaid(s)
	due := money.Round(RealizedValue(s))

	switch {
	case paid <= 0:
		return PaymentPending
	case paid >= due:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

func Balance(s *models.Service) float64 {
	return money.Round(RealizedValue(s) - TotalPaid(s))
}

// Split is one register-payment request, one amount per method.
type Split struct {
	Pix   string
	Cash  string
	Check string
	Card  string
}

// Payments turns a split into one confirmed payment per non-zero method.
// Every non-empty amount must be a well-formed non-negative decimal.
func (sp Split) Payments() ([]models.Payment, error) {
	methods := []struct {
		method string
		amount string
	}{
		{models.PaymentMethodPix, sp.Pix},
		{models.PaymentMethodCash, sp.Cash},
		{models.PaymentMethodCheck, sp.Check},
		{models.PaymentMethodCard, sp.Card},
	}

	var out []models.Payment
	for _, m := range methods {
		if m.amount == "" {
			continue
		}
		if !money.Valid(m.amount) {
			return nil, httperr.ErrBusiness("invalid_amount")
		}
		v := money.Parse(m.amount)
		if v < 0 {
			return nil, httperr.ErrBusiness("invalid_amount")
		}
		if v == 0 {
			continue
		}
		out = append(out, models.Payment{
			Amount: money.Format(v),
			Method: m.method,
			Status: models.PaymentStatusConfirmed,
		})
	}

	if len(out) == 0 {
		return nil, httperr.ErrBusiness("empty_payment")
	}
	return out, nil
}

// PaidColumn is the services column a payment method accumulates into.
func PaidColumn(method string) (string, bool) {
	switch method {
	case models.PaymentMethodPix:
		return "pix_paid", true
	case models.PaymentMethodCash:
		return "cash_paid", true
	case models.PaymentMethodCheck:
		return "check_paid", true
	case models.PaymentMethodCard:
		return "card_paid", true
	}
	return "", false
}
