package vehicle

import (
	"fmt"

	"github.com/BruksfildServices01/garage-manager/internal/httperr"
)

// OpenServicesError blocks deleting a vehicle that still has scheduled or
// in-progress work. It unwraps to the vehicle_has_open_services business
// error so handlers map it like any other.
type OpenServicesError struct {
	VehicleID uint
	Open      int64
}

func (e *OpenServicesError) Error() string {
	return fmt.Sprintf("vehicle %d has %d open service(s)", e.VehicleID, e.Open)
}

func (e *OpenServicesError) Unwrap() error {
	return httperr.ErrBusiness("vehicle_has_open_services")
}

func CanDelete(vehicleID uint, openServices int64) error {
	if openServices > 0 {
		return &OpenServicesError{VehicleID: vehicleID, Open: openServices}
	}
	return nil
}
