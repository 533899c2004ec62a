package locationrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dialectPostgres = "postgres"

// newerThanStored limits the upsert to positions at least as recent as the
// stored one.
const newerThanStored = `courier_current_locations."timestamp" <= excluded."timestamp"`

// ErrBuildingQueryFailed wraps goqu errors while rendering SQL.
var ErrBuildingQueryFailed = errors.New("building location query failed")

// GormLocationRepository implements ports.LocationRepository. Writes go
// through GORM; range and paginated reads and the purge are rendered with
// goqu and executed on the same GORM connection, so they join the caller's
// transaction.
type GormLocationRepository struct {
	db *gorm.DB
}

var _ ports.LocationRepository = (*GormLocationRepository)(nil)

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// SaveCurrent upserts the courier's current position. A stored row with a
// later timestamp wins.
func (r *GormLocationRepository) SaveCurrent(ctx context.Context, location tracking.CourierLocation) error {
	if err := location.Validate(); err != nil {
		return err
	}

	dto := currentFromDomain(location)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: colCourierID}},
			DoUpdates: clause.AssignmentColumns([]string{colLatitude, colLongitude, colAccuracy, colTimestamp, colSpeed, colHeading, colUpdatedAt}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: newerThanStored},
			}},
		}).
		Create(&dto).Error
}

func (r *GormLocationRepository) GetCurrent(ctx context.Context, courierIDs []kernel.UUID) ([]tracking.CourierLocation, error) {
	if len(courierIDs) == 0 {
		return make([]tracking.CourierLocation, 0), nil
	}

	ids := make([]string, 0, len(courierIDs))
	for _, id := range courierIDs {
		ids = append(ids, id.String())
	}

	query, err := render(goqu.Dialect(dialectPostgres).
		From(currentTable).
		Where(goqu.C(colCourierID).In(ids)))
	if err != nil {
		return nil, err
	}

	var dtos []CurrentLocationDTO
	if err = r.db.WithContext(ctx).Raw(query).Scan(&dtos).Error; err != nil {
		return nil, err
	}

	locations := make([]tracking.CourierLocation, 0, len(dtos))
	for _, dto := range dtos {
		current, convErr := currentToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		locations = append(locations, current)
	}
	return locations, nil
}

func (r *GormLocationRepository) AppendHistory(ctx context.Context, entry tracking.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	dto := historyFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormLocationRepository) AppendHistoryBatch(ctx context.Context, entries []tracking.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]HistoryDTO, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, historyFromDomain(entry))
	}
	return r.db.WithContext(ctx).CreateInBatches(&dtos, 500).Error
}

// GetHistory returns the entries whose timestamp lies inside the range,
// oldest first, at most tracking.MaxHistoryLimit of them.
func (r *GormLocationRepository) GetHistory(
	ctx context.Context,
	courierID kernel.UUID,
	period kernel.TimeRange,
) ([]tracking.HistoryEntry, error) {
	query, err := render(historyInRange(courierID, period).
		Order(goqu.I(colTimestamp).Asc(), goqu.I(colID).Asc()).
		Limit(uint(tracking.MaxHistoryLimit)))
	if err != nil {
		return nil, err
	}
	return r.scanHistory(ctx, query)
}

// GetHistoryPage returns entries inside the range, newest first.
func (r *GormLocationRepository) GetHistoryPage(
	ctx context.Context,
	courierID kernel.UUID,
	period kernel.TimeRange,
	limit, offset int,
) ([]tracking.HistoryEntry, error) {
	if limit <= 0 {
		limit = tracking.DefaultHistoryLimit
	}
	offset = max(offset, 0)

	query, err := render(historyInRange(courierID, period).
		Order(goqu.I(colTimestamp).Desc(), goqu.I(colID).Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)))
	if err != nil {
		return nil, err
	}
	return r.scanHistory(ctx, query)
}

func (r *GormLocationRepository) CountHistory(
	ctx context.Context,
	courierID kernel.UUID,
	period kernel.TimeRange,
) (int64, error) {
	query, err := render(historyInRange(courierID, period).Select(goqu.COUNT(goqu.Star())))
	if err != nil {
		return 0, err
	}

	var count int64
	if err = r.db.WithContext(ctx).Raw(query).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLocationRepository) DeleteHistoryOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, _, err := goqu.Dialect(dialectPostgres).
		Delete(historyTable).
		Where(goqu.C(colCreatedAt).Lt(cutoff.UTC())).
		ToSQL()
	if err != nil {
		return 0, errors.Join(ErrBuildingQueryFailed, err)
	}

	result := r.db.WithContext(ctx).Exec(query)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormLocationRepository) scanHistory(ctx context.Context, query string) ([]tracking.HistoryEntry, error) {
	var dtos []HistoryDTO
	if err := r.db.WithContext(ctx).Raw(query).Scan(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]tracking.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := historyToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func historyInRange(courierID kernel.UUID, period kernel.TimeRange) *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(historyTable).
		Where(
			goqu.C(colCourierID).Eq(courierID.String()),
			goqu.C(colTimestamp).Between(exp.NewRangeVal(period.Start(), period.End())),
		)
}

func render(ds *goqu.SelectDataset) (string, error) {
	query, _, err := ds.ToSQL()
	if err != nil {
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}
	return query, nil
}
