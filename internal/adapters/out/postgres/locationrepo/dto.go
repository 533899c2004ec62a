// Package locationrepo stores courier positions: one current row per
// courier in delivery.courier_current_locations and the append-only
// delivery.courier_location_history.
package locationrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

const (
	currentTable = "delivery.courier_current_locations"
	historyTable = "delivery.courier_location_history"

	colID        = "id"
	colCourierID = "courier_id"
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colAccuracy  = "accuracy"
	colTimestamp = "timestamp"
	colSpeed     = "speed"
	colHeading   = "heading"
	colUpdatedAt = "updated_at"
	colCreatedAt = "created_at"
)

type CurrentLocationDTO struct {
	CourierID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Latitude  float64   `gorm:"type:double precision;not null"`
	Longitude float64   `gorm:"type:double precision;not null"`
	Accuracy  float64   `gorm:"type:double precision;not null"`
	Timestamp time.Time `gorm:"type:timestamptz;not null"`
	Speed     *float64  `gorm:"type:double precision"`
	Heading   *float64  `gorm:"type:double precision"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (CurrentLocationDTO) TableName() string {
	return currentTable
}

type HistoryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;not null;index:idx_location_history_courier_ts,priority:1"`
	Latitude  float64   `gorm:"type:double precision;not null"`
	Longitude float64   `gorm:"type:double precision;not null"`
	Accuracy  float64   `gorm:"type:double precision;not null"`
	Timestamp time.Time `gorm:"type:timestamptz;not null;index:idx_location_history_courier_ts,priority:2"`
	Speed     *float64  `gorm:"type:double precision"`
	Heading   *float64  `gorm:"type:double precision"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;index:idx_location_history_created_at"`
}

func (HistoryDTO) TableName() string {
	return historyTable
}

func currentFromDomain(c tracking.CourierLocation) CurrentLocationDTO {
	loc := c.Location()
	return CurrentLocationDTO{
		CourierID: c.CourierID().Bytes(),
		Latitude:  loc.Latitude(),
		Longitude: loc.Longitude(),
		Accuracy:  loc.Accuracy(),
		Timestamp: loc.Timestamp(),
		Speed:     loc.Speed(),
		Heading:   loc.Heading(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func currentToDomain(dto CurrentLocationDTO) (tracking.CourierLocation, error) {
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return tracking.CourierLocation{}, err
	}
	loc, err := kernel.LocationFromStored(dto.Latitude, dto.Longitude, dto.Accuracy, dto.Timestamp, dto.Speed, dto.Heading)
	if err != nil {
		return tracking.CourierLocation{}, err
	}
	return tracking.RestoreCourierLocation(courierID, loc, dto.UpdatedAt)
}

func historyFromDomain(e tracking.HistoryEntry) HistoryDTO {
	loc := e.Location()
	return HistoryDTO{
		ID:        e.ID().Bytes(),
		CourierID: e.CourierID().Bytes(),
		Latitude:  loc.Latitude(),
		Longitude: loc.Longitude(),
		Accuracy:  loc.Accuracy(),
		Timestamp: loc.Timestamp(),
		Speed:     loc.Speed(),
		Heading:   loc.Heading(),
		CreatedAt: e.RecordedAt(),
	}
}

func historyToDomain(dto HistoryDTO) (tracking.HistoryEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return tracking.HistoryEntry{}, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return tracking.HistoryEntry{}, err
	}
	loc, err := kernel.LocationFromStored(dto.Latitude, dto.Longitude, dto.Accuracy, dto.Timestamp, dto.Speed, dto.Heading)
	if err != nil {
		return tracking.HistoryEntry{}, err
	}
	return tracking.RestoreHistoryEntry(id, courierID, loc, dto.CreatedAt)
}
