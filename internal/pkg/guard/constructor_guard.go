// Package guard provides ConstructorGuard, a marker embedded in value objects,
// entities, commands and queries so that a zero value can be told apart from
// an instance built by its constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing object went through its constructor.
//
// Example:
//
//	var ErrCoordinatesIsNotConstructed = errors.New("Coordinates must be created via NewCoordinates")
//
//	type Coordinates struct {
//	    latitude  float64
//	    longitude float64
//	    guard     guard.ConstructorGuard
//	}
//
//	func (c Coordinates) Validate() error {
//	    return c.guard.Validate(ErrCoordinatesIsNotConstructed)
//	}
//
// The guard is a plain value, so copies share the constructed state and
// concurrent reads are safe.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed. Call it only
// from the constructor of the enclosing type.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is
// nil) for a zero-value guard and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
