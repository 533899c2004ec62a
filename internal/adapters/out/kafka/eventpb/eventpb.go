// Package eventpb encodes domain events as protobuf messages.
//
// The messages are written field by field with protowire, so consumers can
// decode them with code generated from the schema below. Zero values are
// omitted, as proto3 does.
//
//	message Coordinates { double latitude = 1; double longitude = 2; }
//	message Location {
//	  double latitude = 1; double longitude = 2; double accuracy = 3;
//	  google.protobuf.Timestamp timestamp = 4;
//	  optional double speed = 5; optional double heading = 6;
//	}
//	message PackageAccepted {
//	  string package_id = 1; string order_id = 2; string customer_id = 3;
//	  string zone = 4; string priority = 5; double weight_kg = 6;
//	  Coordinates pickup = 7; Coordinates delivery = 8;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message PackageAssigned {
//	  string package_id = 1; string order_id = 2; string courier_id = 3;
//	  double distance_km = 4; double estimated_minutes = 5;
//	  google.protobuf.Timestamp assigned_at = 6;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message PackageInTransit {
//	  string package_id = 1; string order_id = 2; string courier_id = 3;
//	  Location courier_location = 4;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message PackageDelivered {
//	  string package_id = 1; string order_id = 2; string courier_id = 3;
//	  google.protobuf.Timestamp delivered_at = 4;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message PackageNotDelivered {
//	  string package_id = 1; string order_id = 2; string courier_id = 3;
//	  string reason = 4;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message PackageRequiresHandling {
//	  string package_id = 1; string order_id = 2;
//	  optional string previous_courier_id = 3; string reason = 4;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message CourierRegistered {
//	  string courier_id = 1; string name = 2; string transport_type = 3;
//	  string work_zone = 4;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message CourierStatusChanged {
//	  string courier_id = 1; string from = 2; string to = 3;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
//	message CourierLocationUpdated {
//	  string courier_id = 1; Location location = 2;
//	  google.protobuf.Timestamp occurred_at = 15;
//	}
package eventpb

import (
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"

	"google.golang.org/protobuf/encoding/protowire"
)

// OccurredAtField is the field number of occurred_at in every event message.
const OccurredAtField protowire.Number = 15

// Marshal encodes the event as its protobuf message.
func Marshal(event events.Event) ([]byte, error) {
	var m message

	switch e := event.(type) {
	case events.PackageAccepted:
		m.uuid(1, e.PackageID)
		m.uuid(2, e.OrderID)
		m.uuid(3, e.CustomerID)
		m.string(4, e.Zone)
		m.string(5, e.Priority.String())
		m.double(6, e.WeightKg)
		m.embedded(7, coordinates(e.Pickup))
		m.embedded(8, coordinates(e.Delivery))
	case events.PackageAssigned:
		m.uuid(1, e.PackageID)
		m.uuid(2, e.OrderID)
		m.uuid(3, e.CourierID)
		m.double(4, e.DistanceKm)
		m.double(5, e.EstimatedMinutes)
		m.timestamp(6, e.AssignedAt)
	case events.PackageInTransit:
		m.uuid(1, e.PackageID)
		m.uuid(2, e.OrderID)
		m.uuid(3, e.CourierID)
		if e.CourierLocation != nil {
			m.embedded(4, location(*e.CourierLocation))
		}
	case events.PackageDelivered:
		m.uuid(1, e.PackageID)
		m.uuid(2, e.OrderID)
		m.uuid(3, e.CourierID)
		m.timestamp(4, e.DeliveredAt)
	case events.PackageNotDelivered:
		m.uuid(1, e.PackageID)
		m.uuid(2, e.OrderID)
		m.uuid(3, e.CourierID)
		m.string(4, e.Reason)
	case events.PackageRequiresHandling:
		m.uuid(1, e.PackageID)
		m.uuid(2, e.OrderID)
		if e.PreviousCourierID != nil {
			m.uuid(3, *e.PreviousCourierID)
		}
		m.string(4, e.Reason)
	case events.CourierRegistered:
		m.uuid(1, e.CourierID)
		m.string(2, e.CourierName)
		m.string(3, e.TransportType.String())
		m.string(4, e.WorkZone)
	case events.CourierStatusChanged:
		m.uuid(1, e.CourierID)
		m.string(2, e.From.String())
		m.string(3, e.To.String())
	case events.CourierLocationUpdated:
		m.uuid(1, e.CourierID)
		m.embedded(2, location(e.Location))
	default:
		return nil, fmt.Errorf("no protobuf message for event %T", event)
	}

	if err := event.EntityID().Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", event.Name(), err)
	}
	m.timestamp(OccurredAtField, event.At())
	return m.b, nil
}

type message struct {
	b []byte
}

func (m *message) string(num protowire.Number, s string) {
	if s == "" {
		return
	}
	m.b = protowire.AppendTag(m.b, num, protowire.BytesType)
	m.b = protowire.AppendString(m.b, s)
}

func (m *message) uuid(num protowire.Number, id kernel.UUID) {
	if id.Validate() != nil {
		return
	}
	m.string(num, id.String())
}

func (m *message) double(num protowire.Number, v float64) {
	if v == 0 {
		return
	}
	m.b = protowire.AppendTag(m.b, num, protowire.Fixed64Type)
	m.b = protowire.AppendFixed64(m.b, math.Float64bits(v))
}

func (m *message) optionalDouble(num protowire.Number, v *float64) {
	if v == nil {
		return
	}
	m.b = protowire.AppendTag(m.b, num, protowire.Fixed64Type)
	m.b = protowire.AppendFixed64(m.b, math.Float64bits(*v))
}

func (m *message) varint(num protowire.Number, v int64) {
	if v == 0 {
		return
	}
	m.b = protowire.AppendTag(m.b, num, protowire.VarintType)
	m.b = protowire.AppendVarint(m.b, uint64(v))
}

func (m *message) embedded(num protowire.Number, inner []byte) {
	m.b = protowire.AppendTag(m.b, num, protowire.BytesType)
	m.b = protowire.AppendBytes(m.b, inner)
}

// timestamp writes a google.protobuf.Timestamp.
func (m *message) timestamp(num protowire.Number, t time.Time) {
	if t.IsZero() {
		return
	}
	var ts message
	ts.varint(1, t.Unix())
	ts.varint(2, int64(t.Nanosecond()))
	m.embedded(num, ts.b)
}

func coordinates(c kernel.Coordinates) []byte {
	var m message
	m.double(1, c.Latitude())
	m.double(2, c.Longitude())
	return m.b
}

func location(l kernel.Location) []byte {
	var m message
	m.double(1, l.Latitude())
	m.double(2, l.Longitude())
	m.double(3, l.Accuracy())
	m.timestamp(4, l.Timestamp())
	m.optionalDouble(5, l.Speed())
	m.optionalDouble(6, l.Heading())
	return m.b
}
