package tracking_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(t *testing.T, at time.Time) kernel.Location {
	t.Helper()
	loc, err := kernel.LocationFromStored(52.52, 13.405, 5, at, nil, nil)
	require.NoError(t, err)
	return loc
}

func TestNewCourierLocation(t *testing.T) {
	courierID := kernel.NewUUID()
	loc := reading(t, time.Now())

	cl, err := tracking.NewCourierLocation(courierID, loc)
	require.NoError(t, err)
	assert.NoError(t, cl.Validate())
	assert.True(t, cl.CourierID().IsEqual(courierID))
	assert.Equal(t, loc, cl.Location())
	assert.WithinDuration(t, time.Now(), cl.UpdatedAt(), time.Second)

	_, err = tracking.NewCourierLocation(kernel.UUID{}, kernel.Location{})
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)

	var zero tracking.CourierLocation
	assert.ErrorIs(t, zero.Validate(), errs.ErrValueIsRequired)
}

func TestCourierLocation_IsStale(t *testing.T) {
	now := time.Now()
	cl, err := tracking.NewCourierLocation(kernel.NewUUID(), reading(t, now.Add(-10*time.Minute)))
	require.NoError(t, err)

	assert.True(t, cl.IsStale(5*time.Minute, now))
	assert.False(t, cl.IsStale(15*time.Minute, now))
}

func TestHistoryEntry(t *testing.T) {
	courierID := kernel.NewUUID()
	loc := reading(t, time.Now())

	first, err := tracking.NewHistoryEntry(courierID, loc)
	require.NoError(t, err)
	second, err := tracking.NewHistoryEntry(courierID, loc)
	require.NoError(t, err)
	assert.False(t, first.ID().IsEqual(second.ID()))

	recordedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	restored, err := tracking.RestoreHistoryEntry(first.ID(), courierID, loc, recordedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, restored.RecordedAt().Location())
	assert.True(t, restored.RecordedAt().Equal(recordedAt))

	var zero tracking.HistoryEntry
	assert.ErrorIs(t, zero.Validate(), tracking.ErrHistoryEntryIsNotConstructed)
}

func TestClampHistoryLimit(t *testing.T) {
	limit := func(v int) *int { return &v }

	assert.Equal(t, tracking.DefaultHistoryLimit, tracking.ClampHistoryLimit(nil))
	assert.Equal(t, tracking.DefaultHistoryLimit, tracking.ClampHistoryLimit(limit(0)))
	assert.Equal(t, 25, tracking.ClampHistoryLimit(limit(25)))
	assert.Equal(t, tracking.MaxHistoryLimit, tracking.ClampHistoryLimit(limit(5000)))
}
