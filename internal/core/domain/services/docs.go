// Package services provides the pure domain services of the dispatch core.
// They hold no state and perform no I/O.
//
// The package includes:
//   - DispatchService: picks the nearest qualifying courier for a pooled package
//     and reports why every other candidate was rejected
//   - AssignmentValidationService: checks a manual courier assignment and
//     reports all violated rules at once
package services
