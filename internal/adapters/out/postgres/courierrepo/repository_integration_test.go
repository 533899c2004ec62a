package courierrepo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// CourierRepositoryIntegrationTestSuite runs the courier repository against
// a PostgreSQL container.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *courierrepo.GormCourierRepository
	tracker    *MockAggregateTracker
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery.couriers CASCADE").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = courierrepo.NewGormCourierRepository(suite.db, suite.tracker)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func TestCourierRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}

var seq int

func (suite *CourierRepositoryIntegrationTestSuite) newCourier(zone string) *courier.Courier {
	seq++
	start, err := courier.NewTimeOfDay(8, 30, 0)
	suite.Require().NoError(err)
	end, err := courier.NewTimeOfDay(20, 0, 0)
	suite.Require().NoError(err)
	hours, err := courier.NewWorkHours(start, end, []int{1, 2, 3, 4, 5, 6})
	suite.Require().NoError(err)

	token := "push-token"
	c, err := courier.NewCourier(kernel.NewUUID(), fmt.Sprintf("Courier %d", seq),
		fmt.Sprintf("+4915100000%03d", seq), fmt.Sprintf("courier%d@example.com", seq),
		courier.Car, 25, zone, hours, &token)
	suite.Require().NoError(err)
	return c
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_And_Get_RoundTrip() {
	ctx := context.Background()
	c := suite.newCourier("Z1")

	suite.Require().NoError(suite.repository.Add(ctx, c))

	loaded, err := suite.repository.Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal(c.ID(), loaded.ID())
	suite.Equal(c.Name(), loaded.Name())
	suite.Equal(c.Phone(), loaded.Phone())
	suite.Equal(courier.Car, loaded.TransportType())
	suite.InDelta(25.0, loaded.MaxDistanceKm(), 1e-9)
	suite.Equal("Z1", loaded.WorkZone())
	suite.Equal("08:30:00", loaded.WorkHours().Start().String())
	suite.Equal("20:00:00", loaded.WorkHours().End().String())
	suite.Equal([]int{1, 2, 3, 4, 5, 6}, loaded.WorkHours().Days())
	suite.Require().NotNil(loaded.PushToken())
	suite.Equal("push-token", *loaded.PushToken())
	suite.Equal(c.Version(), loaded.Version())
	suite.Equal(loaded.Version(), loaded.PersistedVersion())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", c.ID(), c)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAdd_DuplicatePhone() {
	ctx := context.Background()
	first := suite.newCourier("Z1")
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second := suite.newCourier("Z1")
	phone := first.Phone()
	suite.Require().NoError(second.UpdateContactInfo(&phone, nil, nil))

	err := suite.repository.Add(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_OptimisticVersion() {
	ctx := context.Background()
	c := suite.newCourier("Z1")
	suite.Require().NoError(suite.repository.Add(ctx, c))
	c.MarkPersisted()

	stale, err := suite.repository.Get(ctx, c.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(c.UpdateMaxDistance(40))
	suite.Require().NoError(suite.repository.Update(ctx, c))
	c.MarkPersisted()

	loaded, err := suite.repository.Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.InDelta(40.0, loaded.MaxDistanceKm(), 1e-9)
	suite.Equal(c.Version(), loaded.Version())

	suite.Require().NoError(stale.UpdateMaxDistance(10))
	err = suite.repository.Update(ctx, stale)

	var conflict *errs.VersionConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_Missing() {
	c := suite.newCourier("Z1")

	err := suite.repository.Update(context.Background(), c)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetByIDs_SkipsUnknown() {
	ctx := context.Background()
	a := suite.newCourier("Z1")
	b := suite.newCourier("Z2")
	suite.Require().NoError(suite.repository.Add(ctx, a))
	suite.Require().NoError(suite.repository.Add(ctx, b))

	found, err := suite.repository.GetByIDs(ctx, []kernel.UUID{a.ID(), kernel.NewUUID(), b.ID()})

	suite.Require().NoError(err)
	suite.Len(found, 2)

	empty, err := suite.repository.GetByIDs(ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(empty)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestEmailAndPhoneExists() {
	ctx := context.Background()
	c := suite.newCourier("Z1")
	suite.Require().NoError(suite.repository.Add(ctx, c))

	exists, err := suite.repository.EmailExists(ctx, c.Email())
	suite.Require().NoError(err)
	suite.True(exists)

	exists, err = suite.repository.PhoneExists(ctx, "+490000000000")
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestArchive_HidesFromZone() {
	ctx := context.Background()
	kept := suite.newCourier("Z1")
	archived := suite.newCourier("Z1")
	other := suite.newCourier("Z2")
	for _, c := range []*courier.Courier{kept, archived, other} {
		suite.Require().NoError(suite.repository.Add(ctx, c))
	}

	suite.Require().NoError(suite.repository.Archive(ctx, archived.ID()))

	inZone, err := suite.repository.FindByWorkZone(ctx, "Z1")
	suite.Require().NoError(err)
	suite.Require().Len(inZone, 1)
	suite.Equal(kept.ID(), inZone[0].ID())

	loaded, err := suite.repository.Get(ctx, archived.ID())
	suite.Require().NoError(err)
	suite.Equal(archived.Version()+1, loaded.Version())

	suite.Require().ErrorIs(suite.repository.Archive(ctx, kernel.NewUUID()), errs.ErrObjectNotFound)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestList_Filters() {
	ctx := context.Background()
	for _, zone := range []string{"Z1", "Z1", "Z2"} {
		suite.Require().NoError(suite.repository.Add(ctx, suite.newCourier(zone)))
	}

	all, err := suite.repository.List(ctx, ports.CourierFilter{})
	suite.Require().NoError(err)
	suite.Len(all, 3)

	zoned, err := suite.repository.List(ctx, ports.CourierFilter{WorkZone: "Z1"})
	suite.Require().NoError(err)
	suite.Len(zoned, 2)

	page, err := suite.repository.List(ctx, ports.CourierFilter{Limit: 1, Offset: 1})
	suite.Require().NoError(err)
	suite.Len(page, 1)
}
