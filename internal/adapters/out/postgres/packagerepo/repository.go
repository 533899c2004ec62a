package packagerepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPackageRepository implements ports.PackageRepository using GORM.
type GormPackageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

var _ ports.PackageRepository = (*GormPackageRepository)(nil)

func NewGormPackageRepository(db *gorm.DB, tracker aggregateTracker) *GormPackageRepository {
	return &GormPackageRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new package to the database.
func (r *GormPackageRepository) Add(ctx context.Context, aggregate *parcel.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("package", aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update compares the stored version with the aggregate's PersistedVersion
// and writes the new state only when they match. A mismatch yields a
// VersionConflictError carrying both versions.
func (r *GormPackageRepository) Update(ctx context.Context, aggregate *parcel.Package) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&PackageDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.PersistedVersion()).
		Updates(dto.updates())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var versions []int
		if err := r.db.WithContext(ctx).
			Model(&PackageDTO{}).
			Where("id = ?", dto.ID).
			Pluck("version", &versions).Error; err != nil {
			return err
		}
		if len(versions) == 0 {
			return errs.NewObjectNotFoundError("package", aggregate.ID().String())
		}
		return errs.NewVersionConflictError("package", aggregate.ID().String(),
			aggregate.PersistedVersion(), versions[0])
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a package by ID.
func (r *GormPackageRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PackageDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("package", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPool returns the pooled packages of a zone, urgent first, then oldest first.
func (r *GormPackageRepository) GetPool(ctx context.Context, zone string, limit int) ([]*parcel.Package, error) {
	query := r.db.WithContext(ctx).
		Where("zone = ? AND status = ?", zone, parcel.InPool.String()).
		Order("CASE priority WHEN 'urgent' THEN 0 ELSE 1 END, created_at, id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []PackageDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	packages := make([]*parcel.Package, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}

	return packages, nil
}
