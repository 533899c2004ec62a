package courierrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

var _ ports.CourierRepository = (*GormCourierRepository)(nil)

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new profile. A taken phone or email is reported as
// errs.ErrObjectAlreadyExists; the connection must be opened with
// gorm.Config.TranslateError for the driver error to be recognized.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("courier", aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the profile when the stored version still equals the
// aggregate's PersistedVersion.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.PersistedVersion()).
		Updates(dto.updates())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("courier", aggregate.ID().String(), result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.conflict(ctx, aggregate.ID(), aggregate.PersistedVersion())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// conflict explains why an optimistic update matched no row.
func (r *GormCourierRepository) conflict(ctx context.Context, id kernel.UUID, expected int) error {
	var versions []int
	if err := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", id.Bytes()).
		Pluck("version", &versions).Error; err != nil {
		return err
	}
	if len(versions) == 0 {
		return errs.NewObjectNotFoundError("courier", id.String())
	}
	return errs.NewVersionConflictError("courier", id.String(), expected, versions[0])
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormCourierRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*courier.Courier, error) {
	if len(ids) == 0 {
		return make([]*courier.Courier, 0), nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormCourierRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *GormCourierRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone = ?", phone)
}

func (r *GormCourierRepository) exists(ctx context.Context, query string, value string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CourierDTO{}).Where(query, value).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormCourierRepository) FindByWorkZone(ctx context.Context, zone string) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("work_zone = ? AND archived_at IS NULL", zone).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// Archive stamps archived_at. Archiving twice keeps the first timestamp.
func (r *GormCourierRepository) Archive(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ? AND archived_at IS NULL", id.Bytes()).
		Updates(map[string]any{
			"archived_at": now,
			"updated_at":  now,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&CourierDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("courier", id.String())
	}
	return nil
}

func (r *GormCourierRepository) List(ctx context.Context, filter ports.CourierFilter) ([]*courier.Courier, error) {
	query := r.db.WithContext(ctx).Model(&CourierDTO{})
	if filter.WorkZone != "" {
		query = query.Where("work_zone = ?", filter.WorkZone)
	}
	if filter.TransportType.Validate() == nil {
		query = query.Where("transport_type = ?", filter.TransportType.String())
	}
	if !filter.IncludeArchived {
		query = query.Where("archived_at IS NULL")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var dtos []CourierDTO
	if err := query.Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}
