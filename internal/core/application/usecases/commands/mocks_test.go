package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing.
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

// MockTx is embedded by every unit of work mock.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCourierUoW struct {
	MockTx
}

func (m *MockCourierUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockPackageUoW struct {
	MockTx
}

func (m *MockPackageUoW) PackageRepository() ports.PackageRepository {
	args := m.Called()
	return args.Get(0).(ports.PackageRepository)
}

type MockLocationUoW struct {
	MockTx
}

func (m *MockLocationUoW) LocationRepository() ports.LocationRepository {
	args := m.Called()
	return args.Get(0).(ports.LocationRepository)
}

type MockUoW struct {
	MockTx
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) PackageRepository() ports.PackageRepository {
	args := m.Called()
	return args.Get(0).(ports.PackageRepository)
}

type MockCourierUoWFactory struct {
	mock.Mock
}

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockPackageUoWFactory struct {
	mock.Mock
}

func (m *MockPackageUoWFactory) Create() commands.PackageUoW {
	args := m.Called()
	return args.Get(0).(commands.PackageUoW)
}

type MockLocationUoWFactory struct {
	mock.Mock
}

func (m *MockLocationUoWFactory) Create() commands.LocationUoW {
	args := m.Called()
	return args.Get(0).(commands.LocationUoW)
}

type MockUoWFactory struct {
	mock.Mock
}

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
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

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendOrderAssigned(
	ctx context.Context,
	pushToken string,
	notification ports.OrderAssignedNotification,
) error {
	args := m.Called(ctx, pushToken, notification)
	return args.Error(0)
}

func (m *MockNotificationService) SendDeliveryStatus(
	ctx context.Context,
	pushToken string,
	notification ports.DeliveryStatusNotification,
) error {
	args := m.Called(ctx, pushToken, notification)
	return args.Error(0)
}

type MockGeolocationService struct {
	mock.Mock
}

func (m *MockGeolocationService) UpdateLocation(ctx context.Context, courierID kernel.UUID, location kernel.Location) error {
	args := m.Called(ctx, courierID, location)
	return args.Error(0)
}

// Fixtures.

func testWorkHours(t *testing.T, startHour, endHour int, days ...int) courier.WorkHours {
	t.Helper()
	if len(days) == 0 {
		days = []int{1, 2, 3, 4, 5, 6, 7}
	}
	start, err := courier.NewTimeOfDay(startHour, 0, 0)
	require.NoError(t, err)
	end, err := courier.NewTimeOfDay(endHour, 0, 0)
	require.NoError(t, err)
	hours, err := courier.NewWorkHours(start, end, days)
	require.NoError(t, err)
	return hours
}

// newCourier returns a persisted Bicycle courier in zone Z1 working 09-18
// with the given hot state attached.
func newCourier(t *testing.T, state courier.RuntimeState) *courier.Courier {
	t.Helper()
	return newCourierWithHours(t, testWorkHours(t, 9, 18), state)
}

func newCourierWithHours(t *testing.T, hours courier.WorkHours, state courier.RuntimeState) *courier.Courier {
	t.Helper()
	now := time.Now().UTC()
	c, err := courier.RestoreCourier(
		kernel.NewUUID(),
		"John Doe",
		"+491234567890",
		"john@example.com",
		courier.Bicycle,
		10,
		"Z1",
		hours,
		nil,
		now,
		now,
		1,
	)
	require.NoError(t, err)
	require.NoError(t, c.RestoreRuntimeState(state))
	return c
}

func freeState(load int) courier.RuntimeState {
	return courier.RuntimeState{Status: courier.Free, CurrentLoad: load, MaxLoad: 2, WorkZone: "Z1"}
}

func testAddress(t *testing.T, lat, lon float64) parcel.Address {
	t.Helper()
	point, err := kernel.NewCoordinates(lat, lon)
	require.NoError(t, err)
	address, err := parcel.NewAddress("Alexanderplatz 1", "Berlin", "10178", point)
	require.NoError(t, err)
	return address
}

func testPeriod(t *testing.T) parcel.DeliveryPeriod {
	t.Helper()
	period, err := parcel.NewDeliveryPeriod(time.Now().Add(time.Hour), time.Now().Add(3*time.Hour))
	require.NoError(t, err)
	return period
}

// newPooledPackage returns a package waiting in the pool of zone Z1 with
// its pickup at Alexanderplatz.
func newPooledPackage(t *testing.T) *parcel.Package {
	t.Helper()
	p, err := parcel.NewPackage(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		parcel.Contact{},
		testAddress(t, 52.52, 13.405),
		testAddress(t, 52.50, 13.42),
		testPeriod(t),
		2.5,
		parcel.Normal,
		"Z1",
	)
	require.NoError(t, err)
	require.NoError(t, p.MoveToPool())
	return p
}

func newAssignedPackage(t *testing.T, courierID kernel.UUID) *parcel.Package {
	t.Helper()
	p := newPooledPackage(t)
	require.NoError(t, p.AssignTo(courierID))
	return p
}

func cachedLocation(t *testing.T, courierID kernel.UUID, lat, lon float64) tracking.CourierLocation {
	t.Helper()
	loc, err := kernel.LocationFromStored(lat, lon, 10, time.Now(), nil, nil)
	require.NoError(t, err)
	current, err := tracking.NewCourierLocation(courierID, loc)
	require.NoError(t, err)
	return current
}

func eventNamed(name string) any {
	return mock.MatchedBy(func(e events.Event) bool { return e.Name() == name })
}
