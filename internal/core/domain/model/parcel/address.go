package parcel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrAddressIsNotConstructed is returned when a zero-value Address is used.
	ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")
	// ErrDeliveryPeriodIsNotConstructed is returned when a zero-value DeliveryPeriod is used.
	ErrDeliveryPeriodIsNotConstructed = errs.NewValueIsRequiredError(
		"delivery period must be created via NewDeliveryPeriod")
	// ErrInvalidDeliveryPeriod is the cause of a delivery period whose start is not before its end.
	ErrInvalidDeliveryPeriod = errors.New("delivery period start must be before end")
)

// Address is a postal address with the point a courier drives to.
type Address struct {
	street      string
	city        string
	postalCode  string
	coordinates kernel.Coordinates
	guard       guard.ConstructorGuard
}

// NewAddress requires street, city and valid coordinates. The postal code may be empty.
func NewAddress(street, city, postalCode string, coordinates kernel.Coordinates) (Address, error) {
	var errStreet, errCity error
	if strings.TrimSpace(street) == "" {
		errStreet = errs.NewValueIsRequiredError("street")
	}
	if strings.TrimSpace(city) == "" {
		errCity = errs.NewValueIsRequiredError("city")
	}
	if err := errors.Join(errStreet, errCity, coordinates.Validate()); err != nil {
		return Address{}, err
	}

	return Address{
		street:      street,
		city:        city,
		postalCode:  postalCode,
		coordinates: coordinates,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Street() string {
	return a.street
}

func (a Address) City() string {
	return a.city
}

func (a Address) PostalCode() string {
	return a.postalCode
}

func (a Address) Coordinates() kernel.Coordinates {
	return a.coordinates
}

func (a Address) IsEqual(other Address) bool {
	return a.street == other.street &&
		a.city == other.city &&
		a.postalCode == other.postalCode &&
		a.coordinates.IsEqual(other.coordinates)
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s %s", a.street, a.postalCode, a.city)
}

// DeliveryPeriod is the window the customer expects the package in.
type DeliveryPeriod struct {
	window kernel.TimeRange
}

// NewDeliveryPeriod requires start to be strictly before end.
func NewDeliveryPeriod(start, end time.Time) (DeliveryPeriod, error) {
	window, err := kernel.NewTimeRange(start, end)
	if err != nil {
		return DeliveryPeriod{}, errs.NewValueIsInvalidErrorWithCause(
			"delivery period",
			fmt.Errorf("%w: %s - %s", ErrInvalidDeliveryPeriod,
				start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)),
		)
	}
	return DeliveryPeriod{window: window}, nil
}

func (p DeliveryPeriod) Validate() error {
	if p.window.Validate() != nil {
		return ErrDeliveryPeriodIsNotConstructed
	}
	return nil
}

func (p DeliveryPeriod) Start() time.Time {
	return p.window.Start()
}

func (p DeliveryPeriod) End() time.Time {
	return p.window.End()
}

// IsWithin reports whether t falls inside the period, bounds included.
func (p DeliveryPeriod) IsWithin(t time.Time) bool {
	return p.window.Contains(t)
}
