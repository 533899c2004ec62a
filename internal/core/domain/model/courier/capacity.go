package courier

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

var (
	// ErrAtFullCapacity is returned when a package is added to a full courier.
	ErrAtFullCapacity = errors.New("courier is at full capacity")
	// ErrNoPackagesToRelease is returned when releasing from an empty courier.
	ErrNoPackagesToRelease = errors.New("no packages to release")
)

// Capacity tracks how many packages a courier carries against its limit.
// It is a value: mutators return a new Capacity.
//
// Invariant: 0 <= currentLoad <= maxLoad.
type Capacity struct {
	currentLoad int
	maxLoad     int
}

// NewCapacity returns an empty capacity with the given limit.
func NewCapacity(maxLoad int) (Capacity, error) {
	return RestoreCapacity(0, maxLoad)
}

// RestoreCapacity rebuilds a capacity with a known load.
func RestoreCapacity(currentLoad, maxLoad int) (Capacity, error) {
	if maxLoad <= 0 {
		return Capacity{}, errs.NewValueIsInvalidErrorWithCause(
			"max load",
			fmt.Errorf("%d is not greater than 0", maxLoad),
		)
	}
	if currentLoad < 0 || currentLoad > maxLoad {
		return Capacity{}, errs.NewValueIsOutOfRangeError("current load", currentLoad, 0, maxLoad)
	}
	return Capacity{currentLoad: currentLoad, maxLoad: maxLoad}, nil
}

func (c Capacity) CurrentLoad() int {
	return c.currentLoad
}

func (c Capacity) MaxLoad() int {
	return c.maxLoad
}

func (c Capacity) CanAccept() bool {
	return c.currentLoad < c.maxLoad
}

func (c Capacity) IsEmpty() bool {
	return c.currentLoad == 0
}

func (c Capacity) Available() int {
	return c.maxLoad - c.currentLoad
}

// Add returns the capacity with one more package or ErrAtFullCapacity.
func (c Capacity) Add() (Capacity, error) {
	if !c.CanAccept() {
		return c, ErrAtFullCapacity
	}
	return Capacity{currentLoad: c.currentLoad + 1, maxLoad: c.maxLoad}, nil
}

// Release returns the capacity with one package fewer or ErrNoPackagesToRelease.
func (c Capacity) Release() (Capacity, error) {
	if c.IsEmpty() {
		return c, ErrNoPackagesToRelease
	}
	return Capacity{currentLoad: c.currentLoad - 1, maxLoad: c.maxLoad}, nil
}

func (c Capacity) String() string {
	return fmt.Sprintf("%d/%d", c.currentLoad, c.maxLoad)
}
