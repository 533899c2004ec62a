// Package kernel holds the value objects shared by the courier and package
// aggregates:
//   - UUID: identifiers for couriers, packages and location records
//   - Coordinates: a WGS84 point with Haversine distance
//   - Location: a GPS reading with accuracy, timestamp, speed and heading
//   - TimeRange: a closed time interval used by history queries
//
// Every value object is immutable and rejects its zero value in Validate.
package kernel
