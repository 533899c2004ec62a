package cmd

import (
	httpadapter "dispatch/internal/adapters/in/http"
	kafkain "dispatch/internal/adapters/in/kafka"
	"dispatch/internal/adapters/out/geolocation"
	"dispatch/internal/adapters/out/notification"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redis/courierstate"
	"dispatch/internal/adapters/out/redis/locationcache"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	stateCache    ports.CourierStateCache
	locationCache ports.LocationCache
	publisher     ports.EventPublisher
	notifier      ports.NotificationService

	metrics *metrics.Collector
	log     *logger.Logger
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	rdb goredis.UniversalClient,
	publisher ports.EventPublisher,
	collector *metrics.Collector,
	log *logger.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:        config,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		stateCache:    courierstate.NewRedisCourierStateCache(rdb),
		locationCache: locationcache.NewRedisLocationCache(rdb, config.LocationTTL),
		publisher:     publisher,
		notifier:      notification.NewLoggingNotifier(log),
		metrics:       collector,
		log:           log,
	}
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) packageUoWFactory() commands.PackageUoWFactory {
	return FuncPackageUoWFactory(func() commands.PackageUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) locationUoWFactory() commands.LocationUoWFactory {
	return FuncLocationUoWFactory(func() commands.LocationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// readOnly returns a unit of work that is never begun. Its repositories run
// each statement on the pool directly.
func (c *CompositionRoot) readOnly() ports.UnitOfWork {
	return c.uowFactory.Create()
}

// Courier commands

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	return commands.NewRegisterCourierCommandHandler(c.courierUoWFactory(), c.stateCache, c.publisher, c.log)
}

func (c *CompositionRoot) CreateActivateCourierCommandHandler() commands.ActivateCourierCommandHandler {
	return commands.NewActivateCourierCommandHandler(c.courierUoWFactory(), c.stateCache, c.publisher, c.log)
}

func (c *CompositionRoot) CreateDeactivateCourierCommandHandler() commands.DeactivateCourierCommandHandler {
	return commands.NewDeactivateCourierCommandHandler(c.courierUoWFactory(), c.stateCache, c.publisher, c.log)
}

func (c *CompositionRoot) CreateArchiveCourierCommandHandler() commands.ArchiveCourierCommandHandler {
	return commands.NewArchiveCourierCommandHandler(c.courierUoWFactory(), c.stateCache, c.publisher, c.log)
}

func (c *CompositionRoot) CreateUpdateCourierContactInfoCommandHandler() commands.UpdateCourierContactInfoCommandHandler {
	return commands.NewUpdateCourierContactInfoCommandHandler(c.courierUoWFactory(), c.stateCache)
}

func (c *CompositionRoot) CreateUpdateCourierWorkScheduleCommandHandler() commands.UpdateCourierWorkScheduleCommandHandler {
	return commands.NewUpdateCourierWorkScheduleCommandHandler(c.courierUoWFactory(), c.stateCache)
}

func (c *CompositionRoot) CreateChangeCourierTransportTypeCommandHandler() commands.ChangeCourierTransportTypeCommandHandler {
	return commands.NewChangeCourierTransportTypeCommandHandler(c.courierUoWFactory(), c.stateCache)
}

// Package commands

func (c *CompositionRoot) CreateAcceptOrderCommandHandler() commands.AcceptOrderCommandHandler {
	return commands.NewAcceptOrderCommandHandler(c.packageUoWFactory(), c.publisher, c.log)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(
		c.uowFactoryFunc(),
		c.stateCache,
		c.locationCache,
		c.publisher,
		c.notifier,
		c.metrics,
		c.log,
	)
}

func (c *CompositionRoot) CreatePickUpOrderCommandHandler() commands.PickUpOrderCommandHandler {
	bridge := geolocation.NewBridge(c.CreateSaveLocationCommandHandler())
	return commands.NewPickUpOrderCommandHandler(c.packageUoWFactory(), c.publisher, bridge, c.log)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.packageUoWFactory(), c.stateCache, c.publisher, c.log)
}

func (c *CompositionRoot) CreateReturnToPoolCommandHandler() commands.ReturnToPoolCommandHandler {
	return commands.NewReturnToPoolCommandHandler(c.packageUoWFactory(), c.publisher, c.log)
}

// Location commands

func (c *CompositionRoot) CreateSaveLocationCommandHandler() commands.SaveLocationCommandHandler {
	return commands.NewSaveLocationCommandHandler(c.locationUoWFactory(), c.locationCache, c.publisher, c.log)
}

func (c *CompositionRoot) CreateIngestLocationCommandHandler() commands.IngestLocationCommandHandler {
	return commands.NewIngestLocationCommandHandler(c.locationUoWFactory(), c.locationCache)
}

// Maintenance commands

func (c *CompositionRoot) CreatePurgeLocationHistoryCommandHandler() commands.PurgeLocationHistoryCommandHandler {
	return commands.NewPurgeLocationHistoryCommandHandler(c.locationUoWFactory(), c.log)
}

func (c *CompositionRoot) CreateReconcileHotStateCommandHandler() commands.ReconcileHotStateCommandHandler {
	return commands.NewReconcileHotStateCommandHandler(c.courierUoWFactory(), c.stateCache, c.locationCache, c.log)
}

// Queries

func (c *CompositionRoot) CreateGetCourierQueryHandler() queries.GetCourierQueryHandler {
	return queries.NewGetCourierQueryHandler(c.readOnly().CourierRepository(), c.stateCache)
}

func (c *CompositionRoot) CreateGetFreeCouriersQueryHandler() queries.GetFreeCouriersQueryHandler {
	return queries.NewGetFreeCouriersQueryHandler(c.readOnly().CourierRepository(), c.stateCache)
}

func (c *CompositionRoot) CreateGetPackageQueryHandler() queries.GetPackageQueryHandler {
	return queries.NewGetPackageQueryHandler(c.readOnly().PackageRepository())
}

func (c *CompositionRoot) CreateGetPackagePoolQueryHandler() queries.GetPackagePoolQueryHandler {
	return queries.NewGetPackagePoolQueryHandler(c.readOnly().PackageRepository())
}

func (c *CompositionRoot) CreateGetCourierLocationQueryHandler() queries.GetCourierLocationQueryHandler {
	return queries.NewGetCourierLocationQueryHandler(c.locationCache, c.readOnly().LocationRepository(), c.log)
}

func (c *CompositionRoot) CreateGetCourierLocationsQueryHandler() queries.GetCourierLocationsQueryHandler {
	return queries.NewGetCourierLocationsQueryHandler(c.locationCache, c.readOnly().LocationRepository(), c.log)
}

func (c *CompositionRoot) CreateGetLocationHistoryQueryHandler() queries.GetLocationHistoryQueryHandler {
	return queries.NewGetLocationHistoryQueryHandler(c.readOnly().LocationRepository())
}

// Inbound adapters

// CreateHTTPHandlers collects the use cases served by the REST API.
func (c *CompositionRoot) CreateHTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		RegisterCourier:     c.CreateRegisterCourierCommandHandler(),
		ActivateCourier:     c.CreateActivateCourierCommandHandler(),
		DeactivateCourier:   c.CreateDeactivateCourierCommandHandler(),
		ArchiveCourier:      c.CreateArchiveCourierCommandHandler(),
		UpdateContactInfo:   c.CreateUpdateCourierContactInfoCommandHandler(),
		UpdateWorkSchedule:  c.CreateUpdateCourierWorkScheduleCommandHandler(),
		ChangeTransportType: c.CreateChangeCourierTransportTypeCommandHandler(),

		AcceptOrder:  c.CreateAcceptOrderCommandHandler(),
		AssignOrder:  c.CreateAssignOrderCommandHandler(),
		PickUpOrder:  c.CreatePickUpOrderCommandHandler(),
		DeliverOrder: c.CreateDeliverOrderCommandHandler(),
		ReturnToPool: c.CreateReturnToPoolCommandHandler(),

		SaveLocation: c.CreateSaveLocationCommandHandler(),

		GetCourier:          c.CreateGetCourierQueryHandler(),
		GetFreeCouriers:     c.CreateGetFreeCouriersQueryHandler(),
		GetPackage:          c.CreateGetPackageQueryHandler(),
		GetPackagePool:      c.CreateGetPackagePoolQueryHandler(),
		GetCourierLocation:  c.CreateGetCourierLocationQueryHandler(),
		GetCourierLocations: c.CreateGetCourierLocationsQueryHandler(),
		GetLocationHistory:  c.CreateGetLocationHistoryQueryHandler(),
	}
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(c.CreateHTTPHandlers(), c.metrics, c.log)
}

func (c *CompositionRoot) CreateLocationConsumer() *kafkain.LocationConsumer {
	return kafkain.NewLocationConsumer(c.CreateIngestLocationCommandHandler(), c.metrics, c.log)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewHotStateReconcileJob(c.CreateReconcileHotStateCommandHandler(), c.metrics, c.log),
		jobs.NewLocationHistoryPurgeJob(
			c.CreatePurgeLocationHistoryCommandHandler(),
			c.config.LocationHistoryRetention,
			c.metrics,
			c.log,
		),
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncPackageUoWFactory func() commands.PackageUoW

func (f FuncPackageUoWFactory) Create() commands.PackageUoW {
	return f()
}

type FuncLocationUoWFactory func() commands.LocationUoW

func (f FuncLocationUoWFactory) Create() commands.LocationUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
