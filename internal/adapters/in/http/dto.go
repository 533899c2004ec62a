package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/domain/model/tracking"
)

type WorkHoursRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  []int  `json:"days"`
}

type RegisterCourierRequest struct {
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email"`
	TransportType string           `json:"transport_type"`
	MaxDistanceKm float64          `json:"max_distance_km"`
	WorkZone      string           `json:"work_zone"`
	WorkHours     WorkHoursRequest `json:"work_hours"`
	PushToken     *string          `json:"push_token,omitempty"`
}

type UpdateContactInfoRequest struct {
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	PushToken *string `json:"push_token,omitempty"`
}

type UpdateWorkScheduleRequest struct {
	WorkHours     *WorkHoursRequest `json:"work_hours,omitempty"`
	WorkZone      *string           `json:"work_zone,omitempty"`
	MaxDistanceKm *float64          `json:"max_distance_km,omitempty"`
}

type ChangeTransportTypeRequest struct {
	TransportType string `json:"transport_type"`
}

type AddressRequest struct {
	Street     string  `json:"street"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type AcceptOrderRequest struct {
	OrderID        string         `json:"order_id"`
	CustomerID     string         `json:"customer_id"`
	Pickup         AddressRequest `json:"pickup"`
	Delivery       AddressRequest `json:"delivery"`
	DeliveryStart  time.Time      `json:"delivery_start"`
	DeliveryEnd    time.Time      `json:"delivery_end"`
	WeightKg       float64        `json:"weight_kg"`
	Priority       string         `json:"priority"`
	Zone           string         `json:"zone"`
	CustomerPhone  *string        `json:"customer_phone,omitempty"`
	RecipientName  *string        `json:"recipient_name,omitempty"`
	RecipientPhone *string        `json:"recipient_phone,omitempty"`
	RecipientEmail *string        `json:"recipient_email,omitempty"`
}

type AssignOrderRequest struct {
	// CourierID selects manual assignment; empty means auto dispatch.
	CourierID string `json:"courier_id,omitempty"`
}

type PickUpOrderRequest struct {
	CourierID string `json:"courier_id"`
}

type DeliverOrderRequest struct {
	CourierID string `json:"courier_id"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
}

type SaveLocationRequest struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Accuracy  float64    `json:"accuracy"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Speed     *float64   `json:"speed,omitempty"`
	Heading   *float64   `json:"heading,omitempty"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type CourierResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Phone                string    `json:"phone"`
	Email                string    `json:"email"`
	TransportType        string    `json:"transport_type"`
	MaxDistanceKm        float64   `json:"max_distance_km"`
	WorkZone             string    `json:"work_zone"`
	WorkStart            string    `json:"work_start"`
	WorkEnd              string    `json:"work_end"`
	WorkDays             []int     `json:"work_days"`
	Status               string    `json:"status"`
	CurrentLoad          int       `json:"current_load"`
	MaxLoad              int       `json:"max_load"`
	Rating               float64   `json:"rating"`
	SuccessfulDeliveries int       `json:"successful_deliveries"`
	FailedDeliveries     int       `json:"failed_deliveries"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
	Version              int       `json:"version"`
}

func newCourierResponse(v queries.CourierView) CourierResponse {
	return CourierResponse{
		ID:                   v.ID.String(),
		Name:                 v.Name,
		Phone:                v.Phone,
		Email:                v.Email,
		TransportType:        v.TransportType.String(),
		MaxDistanceKm:        v.MaxDistanceKm,
		WorkZone:             v.WorkZone,
		WorkStart:            v.WorkStart,
		WorkEnd:              v.WorkEnd,
		WorkDays:             v.WorkDays,
		Status:               v.Status.String(),
		CurrentLoad:          v.CurrentLoad,
		MaxLoad:              v.MaxLoad,
		Rating:               v.Rating,
		SuccessfulDeliveries: v.SuccessfulDeliveries,
		FailedDeliveries:     v.FailedDeliveries,
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
		Version:              v.Version,
	}
}

type AddressResponse struct {
	Street     string  `json:"street"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

func newAddressResponse(a parcel.Address) AddressResponse {
	return AddressResponse{
		Street:     a.Street(),
		City:       a.City(),
		PostalCode: a.PostalCode(),
		Latitude:   a.Coordinates().Latitude(),
		Longitude:  a.Coordinates().Longitude(),
	}
}

type PackageResponse struct {
	ID                 string          `json:"id"`
	OrderID            string          `json:"order_id"`
	CustomerID         string          `json:"customer_id"`
	Pickup             AddressResponse `json:"pickup"`
	Delivery           AddressResponse `json:"delivery"`
	DeliveryStart      time.Time       `json:"delivery_start"`
	DeliveryEnd        time.Time       `json:"delivery_end"`
	WeightKg           float64         `json:"weight_kg"`
	Priority           string          `json:"priority"`
	Zone               string          `json:"zone"`
	Status             string          `json:"status"`
	CourierID          *string         `json:"courier_id,omitempty"`
	NotDeliveredReason *string         `json:"not_delivered_reason,omitempty"`
	AssignedAt         *time.Time      `json:"assigned_at,omitempty"`
	DeliveredAt        *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

func newPackageResponse(v queries.PackageView) PackageResponse {
	resp := PackageResponse{
		ID:                 v.ID.String(),
		OrderID:            v.OrderID.String(),
		CustomerID:         v.CustomerID.String(),
		Pickup:             newAddressResponse(v.Pickup),
		Delivery:           newAddressResponse(v.Delivery),
		DeliveryStart:      v.DeliveryStart,
		DeliveryEnd:        v.DeliveryEnd,
		WeightKg:           v.WeightKg,
		Priority:           v.Priority.String(),
		Zone:               v.Zone,
		Status:             v.Status.String(),
		NotDeliveredReason: v.NotDeliveredReason,
		AssignedAt:         v.AssignedAt,
		DeliveredAt:        v.DeliveredAt,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
		Version:            v.Version,
	}
	if v.CourierID != nil {
		id := v.CourierID.String()
		resp.CourierID = &id
	}
	return resp
}

type AssignOrderResponse struct {
	PackageID        string    `json:"package_id"`
	CourierID        string    `json:"courier_id"`
	DistanceKm       float64   `json:"distance_km"`
	EstimatedMinutes float64   `json:"estimated_minutes"`
	AssignedAt       time.Time `json:"assigned_at"`
}

type LocationResponse struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
	Speed     *float64  `json:"speed,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
}

func newLocationResponse(l kernel.Location) LocationResponse {
	return LocationResponse{
		Latitude:  l.Latitude(),
		Longitude: l.Longitude(),
		Accuracy:  l.Accuracy(),
		Timestamp: l.Timestamp(),
		Speed:     l.Speed(),
		Heading:   l.Heading(),
	}
}

type CourierLocationResponse struct {
	CourierID   string            `json:"courier_id"`
	Found       bool              `json:"found"`
	Location    *LocationResponse `json:"location,omitempty"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
}

func newCourierLocationResponse(v queries.LocationView) CourierLocationResponse {
	resp := CourierLocationResponse{
		CourierID:   v.CourierID.String(),
		Found:       v.Found,
		LastUpdated: v.LastUpdated,
	}
	if v.Location != nil {
		loc := newLocationResponse(*v.Location)
		resp.Location = &loc
	}
	return resp
}

type SaveLocationResponse struct {
	LocationID string    `json:"location_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type HistoryEntryResponse struct {
	ID         string           `json:"id"`
	Location   LocationResponse `json:"location"`
	RecordedAt time.Time        `json:"recorded_at"`
}

type LocationHistoryResponse struct {
	CourierID  string                 `json:"courier_id"`
	Entries    []HistoryEntryResponse `json:"entries"`
	TotalCount int64                  `json:"total_count"`
	HasMore    bool                   `json:"has_more"`
}

func newHistoryEntryResponses(entries []tracking.HistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntryResponse{
			ID:         e.ID().String(),
			Location:   newLocationResponse(e.Location()),
			RecordedAt: e.RecordedAt(),
		})
	}
	return out
}
