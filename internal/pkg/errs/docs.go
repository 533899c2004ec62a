// Package errs provides standardized error types for the dispatch service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the error kinds the core distinguishes:
//   - ObjectNotFoundError: a durable read for a missing entity
//   - ObjectAlreadyExistsError: a uniqueness violation (duplicate phone or email)
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: invalid input
//   - VersionConflictError: an optimistic-lock save against a stale version
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is can classify it
//
// Callers classify errors with errors.Is against the sentinels and extract
// details with errors.As when they need them (e.g. the actual version of a
// VersionConflictError).
package errs
