package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/services"
)

var (
	ErrNoAvailableCourier  = errors.New("no available courier")
	ErrCourierNotFound     = errors.New("courier not found")
	ErrCourierNotAvailable = errors.New("courier is not available")
	ErrCourierNotAssigned  = errors.New("courier is not assigned to package")
	ErrAlreadyPickedUp     = errors.New("package is already picked up")
	ErrAlreadyDelivered    = errors.New("package is already delivered")
	ErrEmailAlreadyTaken   = errors.New("email is already registered")
	ErrPhoneAlreadyTaken   = errors.New("phone is already registered")
)

// NoAvailableCourierError is returned by auto assignment. Rejections is
// empty when the zone had no free courier at all.
type NoAvailableCourierError struct {
	Zone       string
	Rejections []services.Rejection
}

func (e *NoAvailableCourierError) Error() string {
	if len(e.Rejections) == 0 {
		return fmt.Sprintf("%s in zone %s", ErrNoAvailableCourier, e.Zone)
	}
	return fmt.Sprintf("%s in zone %s: %d candidates rejected", ErrNoAvailableCourier, e.Zone, len(e.Rejections))
}

func (e *NoAvailableCourierError) Unwrap() error {
	return ErrNoAvailableCourier
}
