// Package packagerepo persists package aggregates in delivery.packages.
package packagerepo

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// PackageDTO is the row of delivery.packages. Addresses are embedded as
// prefixed column groups.
type PackageDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;not null"`
	CustomerPhone  *string    `gorm:"type:varchar(32)"`
	RecipientName  *string    `gorm:"type:varchar(255)"`
	RecipientPhone *string    `gorm:"type:varchar(32)"`
	RecipientEmail *string    `gorm:"type:varchar(255)"`
	Pickup         AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery       AddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	PeriodStart    time.Time  `gorm:"column:delivery_period_start;type:timestamptz;not null"`
	PeriodEnd      time.Time  `gorm:"column:delivery_period_end;type:timestamptz;not null"`
	WeightKg       float64    `gorm:"type:numeric(10,3);not null"`
	Priority       string     `gorm:"type:varchar(16);not null"`
	Status         string     `gorm:"type:varchar(32);not null;index:idx_packages_zone_status,priority:2"`
	CourierID      *uuid.UUID `gorm:"type:uuid;index"`
	Zone           string     `gorm:"type:varchar(64);not null;index:idx_packages_zone_status,priority:1"`
	NotDelivered   *string    `gorm:"column:not_delivered_reason;type:text"`
	CreatedAt      time.Time  `gorm:"type:timestamptz;not null"`
	UpdatedAt      time.Time  `gorm:"type:timestamptz;not null"`
	AssignedAt     *time.Time `gorm:"type:timestamptz"`
	DeliveredAt    *time.Time `gorm:"type:timestamptz"`
	Version        int        `gorm:"not null;default:1"`
}

func (PackageDTO) TableName() string {
	return "delivery.packages"
}

type AddressDTO struct {
	Street     string  `gorm:"type:varchar(255);not null"`
	City       string  `gorm:"type:varchar(128);not null"`
	PostalCode string  `gorm:"type:varchar(16);not null"`
	Lat        float64 `gorm:"type:double precision;not null"`
	Lon        float64 `gorm:"type:double precision;not null"`
}

func fromDomain(p *parcel.Package) PackageDTO {
	s := p.Snapshot()

	var courierID *uuid.UUID
	if s.CourierID != nil {
		raw := s.CourierID.Bytes()
		courierID = &raw
	}

	return PackageDTO{
		ID:             s.ID.Bytes(),
		OrderID:        s.OrderID.Bytes(),
		CustomerID:     s.CustomerID.Bytes(),
		CustomerPhone:  s.Contact.CustomerPhone,
		RecipientName:  s.Contact.RecipientName,
		RecipientPhone: s.Contact.RecipientPhone,
		RecipientEmail: s.Contact.RecipientEmail,
		Pickup:         addressFromDomain(s.Pickup),
		Delivery:       addressFromDomain(s.Delivery),
		PeriodStart:    s.DeliveryPeriod.Start(),
		PeriodEnd:      s.DeliveryPeriod.End(),
		WeightKg:       s.WeightKg,
		Priority:       s.Priority.String(),
		Status:         s.Status.String(),
		CourierID:      courierID,
		Zone:           s.Zone,
		NotDelivered:   s.NotDeliveredReason,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		AssignedAt:     s.AssignedAt,
		DeliveredAt:    s.DeliveredAt,
		Version:        s.Version,
	}
}

// updates lists the columns a state change may touch.
func (dto PackageDTO) updates() map[string]any {
	return map[string]any{
		"status":               dto.Status,
		"courier_id":           dto.CourierID,
		"not_delivered_reason": dto.NotDelivered,
		"priority":             dto.Priority,
		"zone":                 dto.Zone,
		"updated_at":           dto.UpdatedAt,
		"assigned_at":          dto.AssignedAt,
		"delivered_at":         dto.DeliveredAt,
		"version":              dto.Version,
	}
}

func addressFromDomain(a parcel.Address) AddressDTO {
	return AddressDTO{
		Street:     a.Street(),
		City:       a.City(),
		PostalCode: a.PostalCode(),
		Lat:        a.Coordinates().Latitude(),
		Lon:        a.Coordinates().Longitude(),
	}
}

func addressToDomain(dto AddressDTO) (parcel.Address, error) {
	point, err := kernel.NewCoordinates(dto.Lat, dto.Lon)
	if err != nil {
		return parcel.Address{}, err
	}
	return parcel.NewAddress(dto.Street, dto.City, dto.PostalCode, point)
}

func toDomain(dto PackageDTO) (*parcel.Package, error) {
	id, idErr := kernel.UUIDFromBytes(dto.ID[:])
	orderID, orderErr := kernel.UUIDFromBytes(dto.OrderID[:])
	customerID, customerErr := kernel.UUIDFromBytes(dto.CustomerID[:])
	pickup, pickupErr := addressToDomain(dto.Pickup)
	delivery, deliveryErr := addressToDomain(dto.Delivery)
	period, periodErr := parcel.NewDeliveryPeriod(dto.PeriodStart, dto.PeriodEnd)
	priority, priorityErr := parcel.ParsePriority(dto.Priority)
	status, statusErr := parcel.ParseStatus(dto.Status)
	if err := errors.Join(idErr, orderErr, customerErr, pickupErr, deliveryErr,
		periodErr, priorityErr, statusErr); err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, err := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if err != nil {
			return nil, err
		}
		courierID = &cID
	}

	return parcel.RestorePackage(parcel.Snapshot{
		ID:         id,
		OrderID:    orderID,
		CustomerID: customerID,
		Contact: parcel.Contact{
			CustomerPhone:  dto.CustomerPhone,
			RecipientName:  dto.RecipientName,
			RecipientPhone: dto.RecipientPhone,
			RecipientEmail: dto.RecipientEmail,
		},
		Pickup:             pickup,
		Delivery:           delivery,
		DeliveryPeriod:     period,
		WeightKg:           dto.WeightKg,
		Priority:           priority,
		Zone:               dto.Zone,
		Status:             status,
		CourierID:          courierID,
		NotDeliveredReason: dto.NotDelivered,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		AssignedAt:         dto.AssignedAt,
		DeliveredAt:        dto.DeliveredAt,
		Version:            dto.Version,
	})
}
