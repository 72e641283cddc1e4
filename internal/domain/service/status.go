package service

import (
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/models"
)

// ===============================
// Service Status
// ===============================

type Status string

const (
	StatusScheduled  Status = models.StatusScheduled
	StatusInProgress Status = models.StatusInProgress
	StatusCompleted  Status = models.StatusCompleted
	StatusCancelled  Status = models.StatusCancelled
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// IsOpen reports whether work is still pending on the service.
func (s Status) IsOpen() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// OpenStatuses is used in "status IN ?" queries.
var OpenStatuses = []string{string(StatusScheduled), string(StatusInProgress)}

// ===============================
// Validations
// ===============================

func CanStart(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if !current.IsOpen() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if !current.IsOpen() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanEdit(current Status) error {
	if !current.IsOpen() {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanDelete only lets closed services go, so history is never lost
// while work is pending.
func CanDelete(current Status) error {
	if current.IsOpen() {
		return httperr.ErrBusiness("service_is_open")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
