// Package tracking holds courier position data: the latest known location
// of a courier and the append-only history of readings.
package tracking

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// DefaultHistoryLimit is used when a history query gives no limit.
	DefaultHistoryLimit = 100
	// MaxHistoryLimit caps the number of history entries per query.
	MaxHistoryLimit = 1000
	// MaxBatchSize caps the number of couriers in one location lookup.
	MaxBatchSize = 100
)

var (
	ErrCourierLocationIsNotConstructed = errs.NewValueIsRequiredError(
		"courier location must be created via NewCourierLocation or RestoreCourierLocation")
	ErrHistoryEntryIsNotConstructed = errs.NewValueIsRequiredError(
		"history entry must be created via NewHistoryEntry or RestoreHistoryEntry")
)

// CourierLocation is the latest reading of one courier.
type CourierLocation struct {
	courierID kernel.UUID
	location  kernel.Location
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

func NewCourierLocation(courierID kernel.UUID, location kernel.Location) (CourierLocation, error) {
	return RestoreCourierLocation(courierID, location, time.Now())
}

func RestoreCourierLocation(courierID kernel.UUID, location kernel.Location, updatedAt time.Time) (CourierLocation, error) {
	if err := errors.Join(courierID.Validate(), location.Validate()); err != nil {
		return CourierLocation{}, err
	}
	return CourierLocation{
		courierID: courierID,
		location:  location,
		updatedAt: updatedAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c CourierLocation) Validate() error {
	return c.guard.Validate(ErrCourierLocationIsNotConstructed)
}

func (c CourierLocation) CourierID() kernel.UUID {
	return c.courierID
}

func (c CourierLocation) Location() kernel.Location {
	return c.location
}

// UpdatedAt is when the reading was stored, not when it was taken.
func (c CourierLocation) UpdatedAt() time.Time {
	return c.updatedAt
}

// IsStale reports whether the reading was taken more than maxAge before now.
func (c CourierLocation) IsStale(maxAge time.Duration, now time.Time) bool {
	return now.Sub(c.location.Timestamp()) > maxAge
}

// HistoryEntry is one appended reading.
type HistoryEntry struct {
	id         kernel.UUID
	courierID  kernel.UUID
	location   kernel.Location
	recordedAt time.Time
	guard      guard.ConstructorGuard
}

// NewHistoryEntry assigns a fresh id and records the entry now.
func NewHistoryEntry(courierID kernel.UUID, location kernel.Location) (HistoryEntry, error) {
	return RestoreHistoryEntry(kernel.NewUUID(), courierID, location, time.Now())
}

func RestoreHistoryEntry(
	id, courierID kernel.UUID,
	location kernel.Location,
	recordedAt time.Time,
) (HistoryEntry, error) {
	if err := errors.Join(id.Validate(), courierID.Validate(), location.Validate()); err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{
		id:         id,
		courierID:  courierID,
		location:   location,
		recordedAt: recordedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (h HistoryEntry) Validate() error {
	return h.guard.Validate(ErrHistoryEntryIsNotConstructed)
}

func (h HistoryEntry) ID() kernel.UUID {
	return h.id
}

func (h HistoryEntry) CourierID() kernel.UUID {
	return h.courierID
}

func (h HistoryEntry) Location() kernel.Location {
	return h.location
}

func (h HistoryEntry) RecordedAt() time.Time {
	return h.recordedAt
}

// ClampHistoryLimit maps a missing or non-positive limit to DefaultHistoryLimit
// and caps it at MaxHistoryLimit.
func ClampHistoryLimit(limit *int) int {
	if limit == nil || *limit <= 0 {
		return DefaultHistoryLimit
	}
	return min(*limit, MaxHistoryLimit)
}
