package queries

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/domain/model/tracking"
)

// CourierView is the read model of a courier: the durable profile merged
// with its runtime state.
type CourierView struct {
	ID                   kernel.UUID
	Name                 string
	Phone                string
	Email                string
	TransportType        courier.TransportType
	MaxDistanceKm        float64
	WorkZone             string
	WorkStart            string
	WorkEnd              string
	WorkDays             []int
	Status               courier.Status
	CurrentLoad          int
	MaxLoad              int
	Rating               float64
	SuccessfulDeliveries int
	FailedDeliveries     int
	CreatedAt            time.Time
	UpdatedAt            time.Time
	Version              int
}

func newCourierView(c *courier.Courier) CourierView {
	hours := c.WorkHours()
	return CourierView{
		ID:                   c.ID(),
		Name:                 c.Name(),
		Phone:                c.Phone(),
		Email:                c.Email(),
		TransportType:        c.TransportType(),
		MaxDistanceKm:        c.MaxDistanceKm(),
		WorkZone:             c.WorkZone(),
		WorkStart:            hours.Start().String(),
		WorkEnd:              hours.End().String(),
		WorkDays:             hours.Days(),
		Status:               c.Status(),
		CurrentLoad:          c.CurrentLoad(),
		MaxLoad:              c.MaxLoad(),
		Rating:               c.Rating(),
		SuccessfulDeliveries: c.SuccessfulDeliveries(),
		FailedDeliveries:     c.FailedDeliveries(),
		CreatedAt:            c.CreatedAt(),
		UpdatedAt:            c.UpdatedAt(),
		Version:              c.Version(),
	}
}

type PackageView struct {
	ID                 kernel.UUID
	OrderID            kernel.UUID
	CustomerID         kernel.UUID
	Contact            parcel.Contact
	Pickup             parcel.Address
	Delivery           parcel.Address
	DeliveryStart      time.Time
	DeliveryEnd        time.Time
	WeightKg           float64
	Priority           parcel.Priority
	Zone               string
	Status             parcel.Status
	CourierID          *kernel.UUID
	NotDeliveredReason *string
	AssignedAt         *time.Time
	DeliveredAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int
}

func newPackageView(p *parcel.Package) PackageView {
	return PackageView{
		ID:                 p.ID(),
		OrderID:            p.OrderID(),
		CustomerID:         p.CustomerID(),
		Contact:            p.Contact(),
		Pickup:             p.Pickup(),
		Delivery:           p.Delivery(),
		DeliveryStart:      p.DeliveryPeriod().Start(),
		DeliveryEnd:        p.DeliveryPeriod().End(),
		WeightKg:           p.WeightKg(),
		Priority:           p.Priority(),
		Zone:               p.Zone(),
		Status:             p.Status(),
		CourierID:          p.CourierID(),
		NotDeliveredReason: p.NotDeliveredReason(),
		AssignedAt:         p.AssignedAt(),
		DeliveredAt:        p.DeliveredAt(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
		Version:            p.Version(),
	}
}

// LocationView answers a location lookup for one courier. Location and
// LastUpdated are nil when Found is false.
type LocationView struct {
	CourierID   kernel.UUID
	Location    *kernel.Location
	LastUpdated *time.Time
	Found       bool
}

func newLocationView(courierID kernel.UUID, current tracking.CourierLocation, found bool) LocationView {
	if !found {
		return LocationView{CourierID: courierID}
	}
	location := current.Location()
	updatedAt := current.UpdatedAt()
	return LocationView{
		CourierID:   courierID,
		Location:    &location,
		LastUpdated: &updatedAt,
		Found:       true,
	}
}
