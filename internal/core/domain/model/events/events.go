// Package events defines the domain events emitted by the dispatch core.
//
// Event is a closed set: only the types in this package implement it. Every
// event carries the id of the entity it is about and the instant it occurred,
// so consumers can deduplicate at-least-once deliveries.
package events

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
)

// Event names, also used as the event_type message header.
const (
	PackageAcceptedName         = "PackageAcceptedEvent"
	PackageAssignedName         = "PackageAssignedEvent"
	PackageInTransitName        = "PackageInTransitEvent"
	PackageDeliveredName        = "PackageDeliveredEvent"
	PackageNotDeliveredName     = "PackageNotDeliveredEvent"
	PackageRequiresHandlingName = "PackageRequiresHandlingEvent"
	CourierRegisteredName       = "CourierRegisteredEvent"
	CourierStatusChangedName    = "CourierStatusChangedEvent"
	CourierLocationUpdatedName  = "CourierLocationUpdatedEvent"
)

type Event interface {
	// Name identifies the event variant.
	Name() string
	// EntityID is the package or courier the event is about.
	EntityID() kernel.UUID
	// At is when the event occurred.
	At() time.Time

	sealed()
}

type PackageAccepted struct {
	PackageID  kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	Zone       string
	Priority   parcel.Priority
	WeightKg   float64
	Pickup     kernel.Coordinates
	Delivery   kernel.Coordinates
	OccurredAt time.Time
}

type PackageAssigned struct {
	PackageID        kernel.UUID
	OrderID          kernel.UUID
	CourierID        kernel.UUID
	DistanceKm       float64
	EstimatedMinutes float64
	AssignedAt       time.Time
	OccurredAt       time.Time
}

type PackageInTransit struct {
	PackageID kernel.UUID
	OrderID   kernel.UUID
	CourierID kernel.UUID
	// CourierLocation is where the courier picked the package up, if known.
	CourierLocation *kernel.Location
	OccurredAt      time.Time
}

type PackageDelivered struct {
	PackageID   kernel.UUID
	OrderID     kernel.UUID
	CourierID   kernel.UUID
	DeliveredAt time.Time
	OccurredAt  time.Time
}

type PackageNotDelivered struct {
	PackageID  kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
	Reason     string
	OccurredAt time.Time
}

type PackageRequiresHandling struct {
	PackageID kernel.UUID
	OrderID   kernel.UUID
	// PreviousCourierID is the courier of the failed attempt, if any.
	PreviousCourierID *kernel.UUID
	Reason            string
	OccurredAt        time.Time
}

type CourierRegistered struct {
	CourierID     kernel.UUID
	CourierName   string
	TransportType courier.TransportType
	WorkZone      string
	OccurredAt    time.Time
}

type CourierStatusChanged struct {
	CourierID  kernel.UUID
	From       courier.Status
	To         courier.Status
	OccurredAt time.Time
}

type CourierLocationUpdated struct {
	CourierID  kernel.UUID
	Location   kernel.Location
	OccurredAt time.Time
}

func (e PackageAccepted) Name() string          { return PackageAcceptedName }
func (e PackageAccepted) EntityID() kernel.UUID { return e.PackageID }
func (e PackageAccepted) At() time.Time         { return e.OccurredAt }
func (PackageAccepted) sealed()                 {}

func (e PackageAssigned) Name() string          { return PackageAssignedName }
func (e PackageAssigned) EntityID() kernel.UUID { return e.PackageID }
func (e PackageAssigned) At() time.Time         { return e.OccurredAt }
func (PackageAssigned) sealed()                 {}

func (e PackageInTransit) Name() string          { return PackageInTransitName }
func (e PackageInTransit) EntityID() kernel.UUID { return e.PackageID }
func (e PackageInTransit) At() time.Time         { return e.OccurredAt }
func (PackageInTransit) sealed()                 {}

func (e PackageDelivered) Name() string          { return PackageDeliveredName }
func (e PackageDelivered) EntityID() kernel.UUID { return e.PackageID }
func (e PackageDelivered) At() time.Time         { return e.OccurredAt }
func (PackageDelivered) sealed()                 {}

func (e PackageNotDelivered) Name() string          { return PackageNotDeliveredName }
func (e PackageNotDelivered) EntityID() kernel.UUID { return e.PackageID }
func (e PackageNotDelivered) At() time.Time         { return e.OccurredAt }
func (PackageNotDelivered) sealed()                 {}

func (e PackageRequiresHandling) Name() string          { return PackageRequiresHandlingName }
func (e PackageRequiresHandling) EntityID() kernel.UUID { return e.PackageID }
func (e PackageRequiresHandling) At() time.Time         { return e.OccurredAt }
func (PackageRequiresHandling) sealed()                 {}

func (e CourierRegistered) Name() string          { return CourierRegisteredName }
func (e CourierRegistered) EntityID() kernel.UUID { return e.CourierID }
func (e CourierRegistered) At() time.Time         { return e.OccurredAt }
func (CourierRegistered) sealed()                 {}

func (e CourierStatusChanged) Name() string          { return CourierStatusChangedName }
func (e CourierStatusChanged) EntityID() kernel.UUID { return e.CourierID }
func (e CourierStatusChanged) At() time.Time         { return e.OccurredAt }
func (CourierStatusChanged) sealed()                 {}

func (e CourierLocationUpdated) Name() string          { return CourierLocationUpdatedName }
func (e CourierLocationUpdated) EntityID() kernel.UUID { return e.CourierID }
func (e CourierLocationUpdated) At() time.Time         { return e.OccurredAt }
func (CourierLocationUpdated) sealed()                 {}

// NewPackageAccepted builds the event from a package that entered the pool.
func NewPackageAccepted(p *parcel.Package, at time.Time) PackageAccepted {
	return PackageAccepted{
		PackageID:  p.ID(),
		OrderID:    p.OrderID(),
		CustomerID: p.CustomerID(),
		Zone:       p.Zone(),
		Priority:   p.Priority(),
		WeightKg:   p.WeightKg(),
		Pickup:     p.Pickup().Coordinates(),
		Delivery:   p.Delivery().Coordinates(),
		OccurredAt: at.UTC(),
	}
}

// NewCourierStatusChanged returns false when from equals to.
func NewCourierStatusChanged(courierID kernel.UUID, from, to courier.Status, at time.Time) (CourierStatusChanged, bool) {
	if from == to {
		return CourierStatusChanged{}, false
	}
	return CourierStatusChanged{CourierID: courierID, From: from, To: to, OccurredAt: at.UTC()}, true
}
