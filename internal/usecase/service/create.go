package service

import (
	"context"

	domain "github.com/BruksfildServices01/garage-manager/internal/domain/service"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ItemInput struct {
	Description string
	Quantity    int
	UnitPrice   string
}

type CreateServiceInput struct {
	CustomerID    uint
	VehicleID     uint
	ServiceTypeID uint
	TechnicianID  *uint

	ScheduledDate  *string
	ScheduledTime  *string
	EstimatedValue *string
	Notes          string

	Items []ItemInput
}

// ======================================================
// USE CASE
// ======================================================

type CreateService struct {
	Deps
}

func NewCreateService(deps Deps) *CreateService {
	return &CreateService{Deps: deps}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateService) Execute(
	ctx context.Context,
	actor domain.Actor,
	in CreateServiceInput,
) (*models.Service, error) {

	// --------------------------------------------------
	// 1️⃣ Cliente e veículo
	// --------------------------------------------------
	customer, err := uc.Repo.GetCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, httperr.ErrBusiness("customer_not_found")
	}

	vehicle, err := uc.Repo.GetVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, httperr.ErrBusiness("vehicle_not_found")
	}
	if vehicle.CustomerID != customer.ID {
		return nil, httperr.ErrBusiness("vehicle_customer_mismatch")
	}

	// --------------------------------------------------
	// 2️⃣ Tipo de serviço
	// --------------------------------------------------
	st, err := uc.Repo.GetServiceType(ctx, in.ServiceTypeID)
	if err != nil {
		return nil, err
	}
	if st == nil || !st.Active {
		return nil, httperr.ErrBusiness("service_type_not_found")
	}

	// --------------------------------------------------
	// 3️⃣ Agenda
	// --------------------------------------------------
	if err := validateSchedule(in.ScheduledDate, in.ScheduledTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Itens e valor estimado
	// --------------------------------------------------
	items, itemsTotal, err := domain.BuildItems(toItems(in.Items))
	if err != nil {
		return nil, err
	}

	estimated, err := estimatedValue(in.EstimatedValue, st.DefaultPrice, itemsTotal)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Técnico (técnicos só criam para si)
	// --------------------------------------------------
	technicianID := in.TechnicianID
	if !actor.Admin || technicianID == nil {
		id := actor.UserID
		technicianID = &id
	}

	// --------------------------------------------------
	// 6️⃣ Criação (status centralizado)
	// --------------------------------------------------
	s := &models.Service{
		CustomerID:     customer.ID,
		VehicleID:      vehicle.ID,
		ServiceTypeID:  st.ID,
		TechnicianID:   technicianID,
		Status:         string(domain.InitialStatus()),
		ScheduledDate:  in.ScheduledDate,
		ScheduledTime:  in.ScheduledTime,
		EstimatedValue: &estimated,
		PixPaid:        "0.00",
		CashPaid:       "0.00",
		CheckPaid:      "0.00",
		CardPaid:       "0.00",
		Notes:          in.Notes,
		Items:          items,
	}

	if err := uc.Repo.CreateService(ctx, s); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Lembrete
	// --------------------------------------------------
	if err := uc.syncReminder(ctx, s); err != nil {
		uc.Log.WithError(err).WithField("service_id", s.ID).Warn("failed to schedule reminder")
	}

	// --------------------------------------------------
	// 8️⃣ Cache e auditoria
	// --------------------------------------------------
	uc.invalidateDashboard(ctx)
	uc.record(actor, "service_created", s, map[string]any{
		"customer_id": s.CustomerID,
		"vehicle_id":  s.VehicleID,
	})

	return s, nil
}

// ======================================================
// HELPERS
// ======================================================

// validateSchedule accepts no slot, a date alone, or date and time.
func validateSchedule(date, hm *string) error {
	if date == nil {
		if hm != nil {
			return httperr.ErrBusiness("invalid_date_or_time")
		}
		return nil
	}
	if !timezone.IsValidDate(*date) {
		return httperr.ErrBusiness("invalid_date_or_time")
	}
	if hm != nil && !timezone.IsValidTime(*hm) {
		return httperr.ErrBusiness("invalid_date_or_time")
	}
	return nil
}

// estimatedValue uses the explicit value when given, otherwise the type's
// default price plus any line items.
func estimatedValue(explicit *string, defaultPrice string, itemsTotal float64) (string, error) {
	if explicit != nil {
		return normalizeAmount(*explicit)
	}
	return money.Format(money.Parse(defaultPrice) + itemsTotal), nil
}

func toItems(in []ItemInput) []models.ServiceItem {
	out := make([]models.ServiceItem, 0, len(in))
	for _, it := range in {
		out = append(out, models.ServiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return out
}
