// Package courier implements the Courier aggregate of the dispatch domain.
//
// The package includes:
//   - Courier: the aggregate root holding the durable profile and the hot runtime state
//   - Status: the availability state machine (Unavailable, Free, Busy, Archived)
//   - TransportType: walking, bicycle, motorcycle or car with derived speed, range and load
//   - WorkHours and TimeOfDay: the weekly schedule, including overnight shifts
//   - Capacity: current load against max load
//
// Key business rules:
//   - phone is in international format, email contains '@' and '.'
//   - max load follows the transport type and cannot change while packages are carried
//   - a courier fills to Busy and drains back to Free automatically
//   - Archived is terminal
package courier
