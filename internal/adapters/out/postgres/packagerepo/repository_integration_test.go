package packagerepo_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/packagerepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type PackageRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *packagerepo.GormPackageRepository
	tracker    *MockAggregateTracker
}

func (suite *PackageRepositoryIntegrationTestSuite) SetupSuite() {
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

func (suite *PackageRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery.packages").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Return()
	suite.repository = packagerepo.NewGormPackageRepository(suite.db, suite.tracker)
}

func (suite *PackageRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func TestPackageRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(PackageRepositoryIntegrationTestSuite))
}

func (suite *PackageRepositoryIntegrationTestSuite) newPackage(zone string, priority parcel.Priority) *parcel.Package {
	pickupPoint, err := kernel.NewCoordinates(52.52, 13.405)
	suite.Require().NoError(err)
	pickup, err := parcel.NewAddress("Alexanderplatz 1", "Berlin", "10178", pickupPoint)
	suite.Require().NoError(err)
	deliveryPoint, err := kernel.NewCoordinates(52.50, 13.42)
	suite.Require().NoError(err)
	delivery, err := parcel.NewAddress("Oranienstr. 5", "Berlin", "10999", deliveryPoint)
	suite.Require().NoError(err)
	period, err := parcel.NewDeliveryPeriod(time.Now().Add(time.Hour), time.Now().Add(3*time.Hour))
	suite.Require().NoError(err)

	phone := "+4930123456"
	name := "Erika Mustermann"
	p, err := parcel.NewPackage(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		parcel.Contact{CustomerPhone: &phone, RecipientName: &name},
		pickup, delivery, period, 2.5, priority, zone)
	suite.Require().NoError(err)
	return p
}

func (suite *PackageRepositoryIntegrationTestSuite) pooled(zone string, priority parcel.Priority) *parcel.Package {
	p := suite.newPackage(zone, priority)
	suite.Require().NoError(p.MoveToPool())
	suite.Require().NoError(suite.repository.Add(context.Background(), p))
	p.MarkPersisted()
	time.Sleep(2 * time.Millisecond)
	return p
}

func (suite *PackageRepositoryIntegrationTestSuite) TestAdd_And_Get_RoundTrip() {
	ctx := context.Background()
	p := suite.newPackage("Z1", parcel.Urgent)

	suite.Require().NoError(suite.repository.Add(ctx, p))

	loaded, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(p.ID(), loaded.ID())
	suite.Equal(p.OrderID(), loaded.OrderID())
	suite.Equal(parcel.Accepted, loaded.Status())
	suite.Equal(parcel.Urgent, loaded.Priority())
	suite.Equal("Z1", loaded.Zone())
	suite.True(p.Pickup().IsEqual(loaded.Pickup()))
	suite.True(p.Delivery().IsEqual(loaded.Delivery()))
	suite.WithinDuration(p.DeliveryPeriod().Start(), loaded.DeliveryPeriod().Start(), time.Millisecond)
	suite.InDelta(2.5, loaded.WeightKg(), 1e-9)
	suite.Require().NotNil(loaded.Contact().RecipientName)
	suite.Equal("Erika Mustermann", *loaded.Contact().RecipientName)
	suite.Nil(loaded.Contact().RecipientEmail)
	suite.Nil(loaded.CourierID())
	suite.Equal(loaded.Version(), loaded.PersistedVersion())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", p.ID(), p)
}

func (suite *PackageRepositoryIntegrationTestSuite) TestAdd_Duplicate() {
	ctx := context.Background()
	p := suite.newPackage("Z1", parcel.Normal)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	err := suite.repository.Add(ctx, p)

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (suite *PackageRepositoryIntegrationTestSuite) TestUpdate_AssignAndDeliver() {
	ctx := context.Background()
	p := suite.pooled("Z1", parcel.Normal)
	courierID := kernel.NewUUID()

	suite.Require().NoError(p.AssignTo(courierID))
	suite.Require().NoError(suite.repository.Update(ctx, p))
	p.MarkPersisted()

	loaded, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.Assigned, loaded.Status())
	suite.Require().NotNil(loaded.CourierID())
	suite.Equal(courierID, *loaded.CourierID())
	suite.NotNil(loaded.AssignedAt())
	suite.Equal(p.Version(), loaded.Version())
}

func (suite *PackageRepositoryIntegrationTestSuite) TestUpdate_VersionConflict() {
	ctx := context.Background()
	p := suite.pooled("Z1", parcel.Normal)

	rival, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(rival.AssignTo(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Update(ctx, rival))

	suite.Require().NoError(p.AssignTo(kernel.NewUUID()))
	err = suite.repository.Update(ctx, p)

	var conflict *errs.VersionConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Equal(p.PersistedVersion(), conflict.Expected)
	suite.Equal(rival.Version(), conflict.Actual)
}

func (suite *PackageRepositoryIntegrationTestSuite) TestUpdate_Missing() {
	p := suite.newPackage("Z1", parcel.Normal)

	err := suite.repository.Update(context.Background(), p)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *PackageRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *PackageRepositoryIntegrationTestSuite) TestGetPool_UrgentFirstThenOldest() {
	ctx := context.Background()
	oldNormal := suite.pooled("Z1", parcel.Normal)
	newNormal := suite.pooled("Z1", parcel.Normal)
	urgent := suite.pooled("Z1", parcel.Urgent)
	suite.pooled("Z2", parcel.Urgent)

	assigned := suite.pooled("Z1", parcel.Urgent)
	suite.Require().NoError(assigned.AssignTo(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Update(ctx, assigned))

	suite.Require().NoError(suite.repository.Add(ctx, suite.newPackage("Z1", parcel.Urgent)))

	pool, err := suite.repository.GetPool(ctx, "Z1", 10)
	suite.Require().NoError(err)
	suite.Require().Len(pool, 3)
	suite.Equal(urgent.ID(), pool[0].ID())
	suite.Equal(oldNormal.ID(), pool[1].ID())
	suite.Equal(newNormal.ID(), pool[2].ID())

	limited, err := suite.repository.GetPool(ctx, "Z1", 1)
	suite.Require().NoError(err)
	suite.Require().Len(limited, 1)
	suite.Equal(urgent.ID(), limited[0].ID())
}
