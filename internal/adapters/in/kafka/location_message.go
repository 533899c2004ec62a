package kafka

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultAccuracy is used when a message carries no accuracy.
const DefaultAccuracy = 10.0

var ErrInvalidLocationMessage = errors.New("invalid location message")

// locationMessage is the JSON record on the location topic. route_id and
// status are produced by the courier emulator and ignored here.
type locationMessage struct {
	CourierID string              `json:"courier_id"`
	Latitude  *float64            `json:"latitude"`
	Longitude *float64            `json:"longitude"`
	Accuracy  *float64            `json:"accuracy,omitempty"`
	Timestamp jsoniter.RawMessage `json:"timestamp,omitempty"`
	Speed     *float64            `json:"speed,omitempty"`
	Heading   *float64            `json:"heading,omitempty"`
	RouteID   string              `json:"route_id,omitempty"`
	Status    string              `json:"status,omitempty"`
}

// decodeLocation parses a record into a courier id and a relaxed location.
// An unreadable timestamp falls back to now.
func decodeLocation(value []byte, now time.Time) (kernel.UUID, kernel.Location, error) {
	var msg locationMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return kernel.UUID{}, kernel.Location{}, errors.Join(ErrInvalidLocationMessage, err)
	}

	courierID, err := kernel.UUIDFromString(msg.CourierID)
	if err != nil {
		return kernel.UUID{}, kernel.Location{}, errors.Join(ErrInvalidLocationMessage, err)
	}
	if msg.Latitude == nil || msg.Longitude == nil {
		return kernel.UUID{}, kernel.Location{}, errors.Join(ErrInvalidLocationMessage,
			errors.New("latitude and longitude are required"))
	}

	accuracy := DefaultAccuracy
	if msg.Accuracy != nil {
		accuracy = *msg.Accuracy
	}

	ts, ok := parseTimestamp(msg.Timestamp)
	if !ok {
		ts = now
	}

	location, err := kernel.LocationFromStored(*msg.Latitude, *msg.Longitude, accuracy, ts, msg.Speed, msg.Heading)
	if err != nil {
		return kernel.UUID{}, kernel.Location{}, errors.Join(ErrInvalidLocationMessage, err)
	}
	return courierID, location, nil
}

// parseTimestamp accepts an RFC 3339 string, or epoch seconds as a number
// or a numeric string.
func parseTimestamp(raw jsoniter.RawMessage) (time.Time, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil && secs > 0 {
		whole := int64(secs)
		nanos := int64((secs - float64(whole)) * float64(time.Second))
		return time.Unix(whole, nanos).UTC(), true
	}
	return time.Time{}, false
}
