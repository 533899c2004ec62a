package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCourierRepository struct {
	mock.Mock
}

func (m *MockCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*courier.Courier, error) {
	args := m.Called(ctx, ids)
	c, _ := args.Get(0).([]*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourierRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourierRepository) FindByWorkZone(ctx context.Context, zone string) ([]*courier.Courier, error) {
	args := m.Called(ctx, zone)
	c, _ := args.Get(0).([]*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) Archive(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourierRepository) List(ctx context.Context, filter ports.CourierFilter) ([]*courier.Courier, error) {
	args := m.Called(ctx, filter)
	c, _ := args.Get(0).([]*courier.Courier)
	return c, args.Error(1)
}

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Add(ctx context.Context, aggregate *parcel.Package) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, aggregate *parcel.Package) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockPackageRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Package, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*parcel.Package)
	return p, args.Error(1)
}

func (m *MockPackageRepository) GetPool(ctx context.Context, zone string, limit int) ([]*parcel.Package, error) {
	args := m.Called(ctx, zone, limit)
	p, _ := args.Get(0).([]*parcel.Package)
	return p, args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) SaveCurrent(ctx context.Context, location tracking.CourierLocation) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) GetCurrent(ctx context.Context, ids []kernel.UUID) ([]tracking.CourierLocation, error) {
	args := m.Called(ctx, ids)
	l, _ := args.Get(0).([]tracking.CourierLocation)
	return l, args.Error(1)
}

func (m *MockLocationRepository) AppendHistory(ctx context.Context, entry tracking.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLocationRepository) AppendHistoryBatch(ctx context.Context, entries []tracking.HistoryEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLocationRepository) GetHistory(
	ctx context.Context,
	courierID kernel.UUID,
	period kernel.TimeRange,
) ([]tracking.HistoryEntry, error) {
	args := m.Called(ctx, courierID, period)
	h, _ := args.Get(0).([]tracking.HistoryEntry)
	return h, args.Error(1)
}

func (m *MockLocationRepository) GetHistoryPage(
	ctx context.Context,
	courierID kernel.UUID,
	period kernel.TimeRange,
	limit, offset int,
) ([]tracking.HistoryEntry, error) {
	args := m.Called(ctx, courierID, period, limit, offset)
	h, _ := args.Get(0).([]tracking.HistoryEntry)
	return h, args.Error(1)
}

func (m *MockLocationRepository) CountHistory(
	ctx context.Context,
	courierID kernel.UUID,
	period kernel.TimeRange,
) (int64, error) {
	args := m.Called(ctx, courierID, period)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLocationRepository) DeleteHistoryOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockCourierStateCache struct {
	mock.Mock
}

func (m *MockCourierStateCache) InitState(ctx context.Context, id kernel.UUID, state courier.RuntimeState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockCourierStateCache) GetState(ctx context.Context, id kernel.UUID) (courier.RuntimeState, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(courier.RuntimeState), args.Bool(1), args.Error(2)
}

func (m *MockCourierStateCache) SetStatus(ctx context.Context, id kernel.UUID, status courier.Status, zone string) error {
	args := m.Called(ctx, id, status, zone)
	return args.Error(0)
}

func (m *MockCourierStateCache) UpdateLoad(ctx context.Context, id kernel.UUID, delta int) (int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockCourierStateCache) SetMaxLoad(ctx context.Context, id kernel.UUID, maxLoad int) error {
	args := m.Called(ctx, id, maxLoad)
	return args.Error(0)
}

func (m *MockCourierStateCache) RecordDelivery(ctx context.Context, id kernel.UUID, success bool) error {
	args := m.Called(ctx, id, success)
	return args.Error(0)
}

func (m *MockCourierStateCache) MoveZone(ctx context.Context, id kernel.UUID, from, to string) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockCourierStateCache) GetFreeCouriers(ctx context.Context, zone string) ([]kernel.UUID, error) {
	args := m.Called(ctx, zone)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockCourierStateCache) GetAllFree(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockCourierStateCache) Remove(ctx context.Context, id kernel.UUID, zone string) error {
	args := m.Called(ctx, id, zone)
	return args.Error(0)
}

type MockLocationCache struct {
	mock.Mock
}

func (m *MockLocationCache) Set(ctx context.Context, location tracking.CourierLocation) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationCache) Get(ctx context.Context, courierID kernel.UUID) (tracking.CourierLocation, bool, error) {
	args := m.Called(ctx, courierID)
	return args.Get(0).(tracking.CourierLocation), args.Bool(1), args.Error(2)
}

func (m *MockLocationCache) GetMany(ctx context.Context, courierIDs []kernel.UUID) ([]tracking.CourierLocation, error) {
	args := m.Called(ctx, courierIDs)
	l, _ := args.Get(0).([]tracking.CourierLocation)
	return l, args.Error(1)
}

func (m *MockLocationCache) Delete(ctx context.Context, courierID kernel.UUID) error {
	args := m.Called(ctx, courierID)
	return args.Error(0)
}

func (m *MockLocationCache) ActiveCourierIDs(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockLocationCache) PruneInactive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newCourierNamed(t *testing.T, name, zone string) *courier.Courier {
	t.Helper()
	start, err := courier.NewTimeOfDay(9, 0, 0)
	require.NoError(t, err)
	end, err := courier.NewTimeOfDay(18, 0, 0)
	require.NoError(t, err)
	hours, err := courier.NewWorkHours(start, end, []int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	now := time.Now().UTC()
	c, err := courier.RestoreCourier(kernel.NewUUID(), name, "+491234567890", "courier@example.com",
		courier.Motorcycle, 15, zone, hours, nil, now, now, 3)
	require.NoError(t, err)
	return c
}

func newPooledPackage(t *testing.T, priority parcel.Priority) *parcel.Package {
	t.Helper()
	pickupPoint, err := kernel.NewCoordinates(52.52, 13.405)
	require.NoError(t, err)
	pickup, err := parcel.NewAddress("Alexanderplatz 1", "Berlin", "10178", pickupPoint)
	require.NoError(t, err)
	deliveryPoint, err := kernel.NewCoordinates(52.50, 13.42)
	require.NoError(t, err)
	delivery, err := parcel.NewAddress("Oranienstr. 5", "Berlin", "10999", deliveryPoint)
	require.NoError(t, err)
	period, err := parcel.NewDeliveryPeriod(time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	p, err := parcel.NewPackage(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), parcel.Contact{},
		pickup, delivery, period, 1.2, priority, "Z1")
	require.NoError(t, err)
	require.NoError(t, p.MoveToPool())
	return p
}

func storedLocation(t *testing.T, courierID kernel.UUID, lat, lon float64, at time.Time) tracking.CourierLocation {
	t.Helper()
	loc, err := kernel.LocationFromStored(lat, lon, 10, at, nil, nil)
	require.NoError(t, err)
	current, err := tracking.RestoreCourierLocation(courierID, loc, at)
	require.NoError(t, err)
	return current
}

func historyEntry(t *testing.T, courierID kernel.UUID, at time.Time) tracking.HistoryEntry {
	t.Helper()
	loc, err := kernel.LocationFromStored(52.52, 13.405, 10, at, nil, nil)
	require.NoError(t, err)
	entry, err := tracking.NewHistoryEntry(courierID, loc)
	require.NoError(t, err)
	return entry
}

func lastHour(t *testing.T) kernel.TimeRange {
	t.Helper()
	period, err := kernel.NewTimeRange(time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	return period
}
