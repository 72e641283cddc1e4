package service

import (
	"time"

	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/money"
	"github.com/BruksfildServices01/garage-manager/internal/timezone"
)

// ===============================
// Domain Actions
// ===============================

func Start(s *models.Service, now time.Time) error {
	if err := CanStart(Status(s.Status)); err != nil {
		return err
	}

	s.Status = string(StatusInProgress)
	s.StartedAt = &now
	return nil
}

// Complete closes the service. finalValue, when given, replaces any
// previous final value.
func Complete(s *models.Service, finalValue *string, now time.Time) error {
	if err := CanComplete(Status(s.Status)); err != nil {
		return err
	}

	if finalValue != nil {
		v := *finalValue
		s.FinalValue = &v
	}
	s.Status = string(StatusCompleted)
	s.CompletedAt = &now
	if s.StartedAt == nil {
		s.StartedAt = &now
	}
	return nil
}

func Cancel(s *models.Service, now time.Time) error {
	if err := CanCancel(Status(s.Status)); err != nil {
		return err
	}

	s.Status = string(StatusCancelled)
	s.CancelledAt = &now
	return nil
}

// ReminderTime is when the reminder for a service should fire. Services
// without both a date and a time get no reminder.
func ReminderTime(s *models.Service, offset time.Duration) (time.Time, bool) {
	if s.ScheduledDate == nil || s.ScheduledTime == nil {
		return time.Time{}, false
	}

	at, err := timezone.ParseDateTime(*s.ScheduledDate, *s.ScheduledTime)
	if err != nil {
		return time.Time{}, false
	}
	return at.Add(-offset).UTC(), true
}

// BuildItems fills TotalPrice for every item and returns the item total.
func BuildItems(items []models.ServiceItem) ([]models.ServiceItem, float64, error) {
	var total float64
	out := make([]models.ServiceItem, 0, len(items))

	for _, it := range items {
		if it.Quantity <= 0 || !money.Valid(it.UnitPrice) {
			return nil, 0, httperr.ErrBusiness("invalid_amount")
		}

		line := money.Round(float64(it.Quantity) * money.Parse(it.UnitPrice))
		it.UnitPrice = money.Format(money.Parse(it.UnitPrice))
		it.TotalPrice = money.Format(line)
		total += line
		out = append(out, it)
	}

	return out, money.Round(total), nil
}
