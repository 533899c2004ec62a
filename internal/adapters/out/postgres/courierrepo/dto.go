// Package courierrepo persists the durable part of the courier aggregate:
// the profile, contact data, transport, schedule and zone. Runtime state
// lives in the hot store and is never written here.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CourierDTO is the row of delivery.couriers.
type CourierDTO struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name           string        `gorm:"type:varchar(255);not null"`
	Phone          string        `gorm:"type:varchar(32);not null;uniqueIndex"`
	Email          string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	TransportType  string        `gorm:"type:varchar(16);not null"`
	MaxDistanceKm  float64       `gorm:"type:numeric(8,2);not null"`
	WorkZone       string        `gorm:"type:varchar(64);not null;index"`
	WorkHoursStart string        `gorm:"type:time;not null"`
	WorkHoursEnd   string        `gorm:"type:time;not null"`
	WorkDays       pq.Int64Array `gorm:"type:integer[];not null"`
	PushToken      *string       `gorm:"type:varchar(512)"`
	CreatedAt      time.Time     `gorm:"type:timestamptz;not null"`
	UpdatedAt      time.Time     `gorm:"type:timestamptz;not null"`
	ArchivedAt     *time.Time    `gorm:"type:timestamptz"`
	Version        int           `gorm:"not null;default:1"`
}

func (CourierDTO) TableName() string {
	return "delivery.couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	hours := c.WorkHours()
	days := make(pq.Int64Array, 0, len(hours.Days()))
	for _, d := range hours.Days() {
		days = append(days, int64(d))
	}

	return CourierDTO{
		ID:             c.ID().Bytes(),
		Name:           c.Name(),
		Phone:          c.Phone(),
		Email:          c.Email(),
		TransportType:  c.TransportType().String(),
		MaxDistanceKm:  c.MaxDistanceKm(),
		WorkZone:       c.WorkZone(),
		WorkHoursStart: hours.Start().String(),
		WorkHoursEnd:   hours.End().String(),
		WorkDays:       days,
		PushToken:      c.PushToken(),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
		Version:        c.Version(),
	}
}

// updates lists the mutable columns for an optimistic update.
func (dto CourierDTO) updates() map[string]any {
	return map[string]any{
		"name":             dto.Name,
		"phone":            dto.Phone,
		"email":            dto.Email,
		"transport_type":   dto.TransportType,
		"max_distance_km":  dto.MaxDistanceKm,
		"work_zone":        dto.WorkZone,
		"work_hours_start": dto.WorkHoursStart,
		"work_hours_end":   dto.WorkHoursEnd,
		"work_days":        dto.WorkDays,
		"push_token":       dto.PushToken,
		"updated_at":       dto.UpdatedAt,
		"version":          dto.Version,
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	transport, err := courier.ParseTransportType(dto.TransportType)
	if err != nil {
		return nil, err
	}

	start, err := courier.ParseTimeOfDay(dto.WorkHoursStart)
	if err != nil {
		return nil, err
	}
	end, err := courier.ParseTimeOfDay(dto.WorkHoursEnd)
	if err != nil {
		return nil, err
	}
	days := make([]int, 0, len(dto.WorkDays))
	for _, d := range dto.WorkDays {
		days = append(days, int(d))
	}
	hours, err := courier.NewWorkHours(start, end, days)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Phone,
		dto.Email,
		transport,
		dto.MaxDistanceKm,
		dto.WorkZone,
		hours,
		dto.PushToken,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
	)
}

func toDomainList(dtos []CourierDTO) ([]*courier.Courier, error) {
	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}
