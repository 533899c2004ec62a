package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
)

// PackageRepository defines the persistence contract for package aggregates.
type PackageRepository interface {
	// Add persists a new package.
	Add(ctx context.Context, aggregate *parcel.Package) error

	// Update saves the package if the stored version still equals the
	// aggregate's PersistedVersion, otherwise it returns a VersionConflictError
	// carrying the expected and the stored version.
	Update(ctx context.Context, aggregate *parcel.Package) error

	// Get retrieves a package by id.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error)

	// GetPool returns the InPool packages of a zone, urgent first, then oldest first.
	GetPool(ctx context.Context, zone string, limit int) ([]*parcel.Package, error)
}
