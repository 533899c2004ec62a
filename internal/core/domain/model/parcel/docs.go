// Package parcel implements the Package aggregate: a parcel taken from a
// customer order and carried by a courier from pickup to delivery.
//
// The package includes:
//   - Package: the aggregate root with its lifecycle methods
//   - Status: the lifecycle state machine, see CanTransition
//   - Priority: normal or urgent
//   - Address and DeliveryPeriod: where and when the package goes
//
// Key business rules:
//   - a package is created Accepted and enters the pool before dispatch
//   - only a pooled package without a courier can be assigned
//   - a failed delivery can be returned to the pool, which clears the assignment
package parcel
