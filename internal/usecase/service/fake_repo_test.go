package service

import (
	"context"
	"slices"
	"time"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
)

// memRepo is an in-memory domain.Repository.
type memRepo struct {
	customers    map[uint]*models.Customer
	vehicles     map[uint]*models.Vehicle
	serviceTypes map[uint]*models.ServiceType
	services     map[uint]*models.Service
	payments     map[uint]*models.Payment
	reminders    map[uint]time.Time

	nextID uint
}

func newMemRepo() *memRepo {
	r := &memRepo{
		customers:    map[uint]*models.Customer{},
		vehicles:     map[uint]*models.Vehicle{},
		serviceTypes: map[uint]*models.ServiceType{},
		services:     map[uint]*models.Service{},
		payments:     map[uint]*models.Payment{},
		reminders:    map[uint]time.Time{},
		nextID:       100,
	}

	r.customers[1] = &models.Customer{ID: 1, Name: "Ana", Email: "ana@example.com"}
	r.customers[2] = &models.Customer{ID: 2, Name: "Bruno"}
	r.vehicles[1] = &models.Vehicle{ID: 1, CustomerID: 1, Plate: "ABC1234"}
	r.vehicles[2] = &models.Vehicle{ID: 2, CustomerID: 2, Plate: "BRA2E19"}
	r.serviceTypes[1] = &models.ServiceType{ID: 1, Name: "Troca de óleo", DefaultPrice: "150.00", LoyaltyPoints: 10, Active: true}
	r.serviceTypes[2] = &models.ServiceType{ID: 2, Name: "Antigo", DefaultPrice: "10.00", Active: false}
	return r
}

func (r *memRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *memRepo) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	return r.customers[id], nil
}

func (r *memRepo) GetVehicle(_ context.Context, id uint) (*models.Vehicle, error) {
	return r.vehicles[id], nil
}

func (r *memRepo) GetServiceType(_ context.Context, id uint) (*models.ServiceType, error) {
	return r.serviceTypes[id], nil
}

func (r *memRepo) AddLoyaltyPoints(_ context.Context, customerID uint, points int) error {
	r.customers[customerID].LoyaltyPoints += points
	return nil
}

func (r *memRepo) CreateService(_ context.Context, s *models.Service) error {
	s.ID = r.id()
	s.CreatedAt = time.Now()
	cp := *s
	r.services[s.ID] = &cp
	return nil
}

func (r *memRepo) GetService(_ context.Context, id uint, scope domain.Scope) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	if scope.TechnicianID != nil && (s.TechnicianID == nil || *s.TechnicianID != *scope.TechnicianID) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) UpdateService(_ context.Context, s *models.Service, expect []string) error {
	stored, ok := r.services[s.ID]
	if !ok || !slices.Contains(expect, stored.Status) {
		return httperr.ErrBusiness("invalid_state")
	}
	cp := *s
	cp.PixPaid, cp.CashPaid, cp.CheckPaid, cp.CardPaid = stored.PixPaid, stored.CashPaid, stored.CheckPaid, stored.CardPaid
	cp.Items = stored.Items
	r.services[s.ID] = &cp
	return nil
}

func (r *memRepo) ReplaceItems(_ context.Context, serviceID uint, items []models.ServiceItem) error {
	r.services[serviceID].Items = items
	return nil
}

func (r *memRepo) DeleteService(_ context.Context, id uint) error {
	delete(r.services, id)
	return nil
}

func (r *memRepo) ListServices(_ context.Context, f domain.ListFilter) ([]models.Service, error) {
	var out []models.Service
	for _, s := range r.services {
		if f.TechnicianID != nil && (s.TechnicianID == nil || *s.TechnicianID != *f.TechnicianID) {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.From != "" && (s.ScheduledDate == nil || *s.ScheduledDate < f.From || *s.ScheduledDate >= f.To) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *memRepo) ListPayments(_ context.Context, serviceID uint) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.payments {
		if p.ServiceID == serviceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memRepo) GetPayment(_ context.Context, serviceID, paymentID uint) (*models.Payment, error) {
	p, ok := r.payments[paymentID]
	if !ok || p.ServiceID != serviceID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) credit(serviceID uint, method string, delta float64) {
	s := r.services[serviceID]
	col := map[string]*string{
		models.PaymentMethodPix:   &s.PixPaid,
		models.PaymentMethodCash:  &s.CashPaid,
		models.PaymentMethodCheck: &s.CheckPaid,
		models.PaymentMethodCard:  &s.CardPaid,
	}[method]
	*col = money.Format(money.Parse(*col) + delta)
}

func (r *memRepo) RegisterPayments(_ context.Context, serviceID uint, payments []models.Payment) error {
	for _, p := range payments {
		p.ID = r.id()
		cp := p
		r.payments[p.ID] = &cp
		r.credit(serviceID, p.Method, money.Parse(p.Amount))
	}
	return nil
}

func (r *memRepo) CreatePendingPayment(_ context.Context, p *models.Payment) error {
	p.ID = r.id()
	cp := *p
	r.payments[p.ID] = &cp
	return nil
}

func (r *memRepo) ConfirmPayment(_ context.Context, p *models.Payment, paidAt time.Time) error {
	p.Status = models.PaymentStatusConfirmed
	p.PaidAt = &paidAt
	cp := *p
	r.payments[p.ID] = &cp
	r.credit(p.ServiceID, p.Method, money.Parse(p.Amount))
	return nil
}

func (r *memRepo) DeletePayment(_ context.Context, p *models.Payment) error {
	stored, ok := r.payments[p.ID]
	if !ok || stored.ServiceID != p.ServiceID {
		return httperr.ErrBusiness("payment_not_found")
	}
	delete(r.payments, p.ID)
	*p = *stored
	if stored.Status == models.PaymentStatusConfirmed {
		r.credit(stored.ServiceID, stored.Method, -money.Parse(stored.Amount))
	}
	return nil
}

func (r *memRepo) UpsertReminder(_ context.Context, serviceID uint, at time.Time) error {
	r.reminders[serviceID] = at
	return nil
}

func (r *memRepo) DeleteReminder(_ context.Context, serviceID uint) error {
	delete(r.reminders, serviceID)
	return nil
}

var _ domain.Repository = (*memRepo)(nil)
