package service

import (
	"errors"
	"fmt"
)

var (
	ErrAdventureNotFound   = errors.New("adventure not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrAlreadyApproved     = errors.New("booking is already approved")
	ErrBookingCancelled    = errors.New("booking is cancelled")
	ErrInvalidTransition   = errors.New("booking status does not allow this transition")
	ErrForbidden           = errors.New("only a superadmin can delete approved or confirmed bookings")
	ErrAdventureInUse      = errors.New("adventure still has bookings; deactivate it instead")
	ErrInvalidCapacity     = errors.New("maxParticipants cannot be below booked seats")
	ErrAdventureInactive   = errors.New("adventure is not open for booking")
	ErrInvalidParticipants = errors.New("numberOfParticipants must be at least 1")
	ErrInvalidRentalPeriod = errors.New("returnDate must be after pickupDate")
)

// CapacityError reports a request for more units than are left.
type CapacityError struct {
	Resource  string
	Requested int
	Available int
}

func (e *CapacityError) Error() string {
	if e.Resource == "vehicle" {
		return "vehicle is not available"
	}
	return fmt.Sprintf("not enough seats available: requested %d, available %d", e.Requested, e.Available)
}

func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}
