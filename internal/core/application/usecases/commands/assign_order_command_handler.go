package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"
)

// AssignOrderResult describes a successful assignment.
type AssignOrderResult struct {
	PackageID        kernel.UUID
	CourierID        kernel.UUID
	DistanceKm       float64
	EstimatedMinutes float64
	AssignedAt       time.Time
}

// AssignOrderCommandHandler selects a courier for a pooled package and
// records the assignment.
//
// Writes happen in this order:
//  1. the package is assigned and saved with an optimistic version check
//  2. the courier's hot load grows by one; a courier that is now full
//     becomes Busy and leaves the free sets
//  3. PackageAssigned is published
//  4. the courier is notified when it has a push token
//
// Steps 3 and 4 are best effort and only logged on failure. The load is
// taken only after the package commit, so a save rejected with a version
// conflict leaves the courier's load unchanged.
//
// Example:
//
//	handler := NewAssignOrderCommandHandler(uowFactory, stateCache, locationCache,
//	    publisher, notifier, collector, log)
//	cmd, _ := NewAssignOrderCommand(packageID)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoAvailableCourier):
//	    // nobody can take it right now
//	case errors.Is(err, errs.ErrVersionConflict):
//	    // reload and retry
//	case err == nil:
//	    fmt.Printf("assigned to %s, ETA %.0f min", result.CourierID, result.EstimatedMinutes)
//	}
type AssignOrderCommandHandler struct {
	uowFactory    UoWFactory
	stateCache    ports.CourierStateCache
	locationCache ports.LocationCache
	publisher     ports.EventPublisher
	notifier      ports.NotificationService
	dispatcher    services.DispatchService
	validator     services.AssignmentValidationService
	metrics       *metrics.Collector
	log           *logger.Logger
	now           Clock
}

func NewAssignOrderCommandHandler(
	uowFactory UoWFactory,
	stateCache ports.CourierStateCache,
	locationCache ports.LocationCache,
	publisher ports.EventPublisher,
	notifier ports.NotificationService,
	collector *metrics.Collector,
	log *logger.Logger,
) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory:    uowFactory,
		stateCache:    stateCache,
		locationCache: locationCache,
		publisher:     publisher,
		notifier:      notifier,
		dispatcher:    services.NewDispatchService(),
		validator:     services.NewAssignmentValidationService(),
		metrics:       collector,
		log:           nopIfNil(log).With("component", "assign_order"),
		now:           systemClock,
	}
}

// WithClock returns a copy that reads the current time from now. Manual
// assignment uses its hour for the working-hours rule.
func (h AssignOrderCommandHandler) WithClock(now Clock) AssignOrderCommandHandler {
	h.now = now
	return h
}

type selection struct {
	courier    *courier.Courier
	distanceKm float64
}

func (h AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) (AssignOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignOrderResult{}, err
	}

	result, err := h.handle(ctx, cmd)
	h.metrics.ObserveAssignment(cmd.Mode(), assignmentOutcome(err))
	return result, err
}

func (h AssignOrderCommandHandler) handle(ctx context.Context, cmd AssignOrderCommand) (AssignOrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	packageRepo := uow.PackageRepository()
	courierRepo := uow.CourierRepository()

	pkg, err := packageRepo.Get(ctx, cmd.PackageID())
	if err != nil {
		return AssignOrderResult{}, err
	}

	var selected selection
	if courierID, manual := cmd.CourierID(); manual {
		selected, err = h.selectManually(ctx, courierRepo, pkg, courierID)
	} else {
		selected, err = h.selectAutomatically(ctx, courierRepo, pkg)
	}
	if err != nil {
		return AssignOrderResult{}, err
	}

	chosen := selected.courier
	if err = pkg.AssignTo(chosen.ID()); err != nil {
		return AssignOrderResult{}, err
	}

	if err = packageRepo.Update(ctx, pkg); err != nil {
		return AssignOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignOrderResult{}, err
	}

	if err = h.takeLoad(ctx, chosen); err != nil {
		return AssignOrderResult{}, err
	}

	result := AssignOrderResult{
		PackageID:        pkg.ID(),
		CourierID:        chosen.ID(),
		DistanceKm:       selected.distanceKm,
		EstimatedMinutes: chosen.TransportType().EstimatedMinutes(selected.distanceKm),
		AssignedAt:       *pkg.AssignedAt(),
	}

	publish(ctx, h.publisher, h.log, events.PackageAssigned{
		PackageID:        pkg.ID(),
		OrderID:          pkg.OrderID(),
		CourierID:        chosen.ID(),
		DistanceKm:       result.DistanceKm,
		EstimatedMinutes: result.EstimatedMinutes,
		AssignedAt:       result.AssignedAt,
		OccurredAt:       h.now(),
	})

	h.notify(ctx, chosen, pkg, result)

	return result, nil
}

func (h AssignOrderCommandHandler) selectAutomatically(
	ctx context.Context,
	courierRepo ports.CourierRepository,
	pkg *parcel.Package,
) (selection, error) {
	ids, err := h.stateCache.GetFreeCouriers(ctx, pkg.Zone())
	if err != nil {
		return selection{}, err
	}
	if len(ids) == 0 {
		return selection{}, &NoAvailableCourierError{Zone: pkg.Zone()}
	}

	profiles, err := courierRepo.GetByIDs(ctx, ids)
	if err != nil {
		return selection{}, err
	}

	cached, err := h.locationCache.GetMany(ctx, ids)
	if err != nil {
		return selection{}, err
	}
	locations := make(map[string]kernel.Location, len(cached))
	for _, l := range cached {
		locations[l.CourierID().String()] = l.Location()
	}

	byID := make(map[string]*courier.Courier, len(profiles))
	candidates := make([]services.CourierForDispatch, 0, len(profiles))
	for _, profile := range profiles {
		if err = h.attachState(ctx, profile); err != nil {
			return selection{}, err
		}
		byID[profile.ID().String()] = profile

		candidate := services.CourierForDispatch{
			ID:            profile.ID(),
			Status:        profile.Status(),
			TransportType: profile.TransportType(),
			MaxDistanceKm: profile.MaxDistanceKm(),
			Capacity:      profile.Capacity(),
			Rating:        profile.Rating(),
			WorkZone:      profile.WorkZone(),
		}
		if loc, ok := locations[profile.ID().String()]; ok {
			candidate.CurrentLocation = &loc
		}
		candidates = append(candidates, candidate)
	}

	result, err := h.dispatcher.FindNearestCourier(candidates, services.PackageForDispatch{
		ID:             pkg.ID(),
		PickupLocation: pkg.Pickup().Coordinates(),
		DeliveryZone:   pkg.Zone(),
		IsUrgent:       pkg.Priority().IsUrgent(),
	})

	var failure *services.DispatchFailure
	if errors.As(err, &failure) {
		for _, r := range failure.Rejections {
			h.metrics.ObserveRejection(r.Reason.String())
			h.log.Debug("courier rejected",
				"package_id", pkg.ID().String(),
				"courier_id", r.CourierID.String(),
				"reason", r.Reason.String(),
			)
		}
		return selection{}, &NoAvailableCourierError{Zone: pkg.Zone(), Rejections: failure.Rejections}
	}
	if err != nil {
		return selection{}, err
	}

	return selection{courier: byID[result.CourierID.String()], distanceKm: result.DistanceToPickupKm}, nil
}

// selectManually falls back to distance 0 when the courier has no cached
// location, so the max-distance rule cannot reject it in that case.
func (h AssignOrderCommandHandler) selectManually(
	ctx context.Context,
	courierRepo ports.CourierRepository,
	pkg *parcel.Package,
	courierID kernel.UUID,
) (selection, error) {
	chosen, _, err := loadCourier(ctx, courierRepo, h.stateCache, courierID)
	if err != nil {
		return selection{}, err
	}
	if chosen.Status() != courier.Free {
		return selection{}, fmt.Errorf("%w: status is %s", ErrCourierNotAvailable, chosen.Status())
	}

	distance := 0.0
	location, found, err := h.locationCache.Get(ctx, courierID)
	if err != nil {
		return selection{}, err
	}
	if found {
		distance = location.Location().Coordinates().DistanceTo(pkg.Pickup().Coordinates())
	}

	err = h.validator.Validate(
		services.CourierAvailability{
			Status:        chosen.Status(),
			CurrentLoad:   chosen.CurrentLoad(),
			MaxLoad:       chosen.MaxLoad(),
			WorkStartHour: chosen.WorkHours().StartHour(),
			WorkEndHour:   chosen.WorkHours().EndHour(),
			MaxDistanceKm: chosen.MaxDistanceKm(),
		},
		services.PackageForValidation{
			Status:              pkg.Status(),
			DistanceToCourierKm: distance,
		},
		h.now().Hour(),
	)
	if err != nil {
		return selection{}, err
	}

	return selection{courier: chosen, distanceKm: distance}, nil
}

func (h AssignOrderCommandHandler) attachState(ctx context.Context, c *courier.Courier) error {
	state, found, err := h.stateCache.GetState(ctx, c.ID())
	if err != nil {
		return err
	}
	if !found {
		state = courier.DefaultRuntimeState(c.TransportType(), c.WorkZone())
	}
	return c.RestoreRuntimeState(state)
}

// takeLoad adds the package to the courier's hot load and flips a full
// courier to Busy.
func (h AssignOrderCommandHandler) takeLoad(ctx context.Context, chosen *courier.Courier) error {
	load, err := h.stateCache.UpdateLoad(ctx, chosen.ID(), 1)
	if err != nil {
		return fmt.Errorf("update load of courier %s: %w", chosen.ID(), err)
	}
	if load < chosen.MaxLoad() || chosen.Status() != courier.Free {
		return nil
	}

	if err = h.stateCache.SetStatus(ctx, chosen.ID(), courier.Busy, chosen.WorkZone()); err != nil {
		return fmt.Errorf("mark courier %s busy: %w", chosen.ID(), err)
	}
	if event, changed := events.NewCourierStatusChanged(chosen.ID(), courier.Free, courier.Busy, h.now()); changed {
		publish(ctx, h.publisher, h.log, event)
	}
	return nil
}

func (h AssignOrderCommandHandler) notify(
	ctx context.Context,
	chosen *courier.Courier,
	pkg *parcel.Package,
	result AssignOrderResult,
) {
	token := chosen.PushToken()
	if token == nil || h.notifier == nil {
		return
	}

	var customerPhone string
	if phone := pkg.Contact().CustomerPhone; phone != nil {
		customerPhone = *phone
	}

	err := h.notifier.SendOrderAssigned(ctx, *token, ports.OrderAssignedNotification{
		PackageID:        pkg.ID(),
		PickupAddress:    pkg.Pickup().String(),
		PickupLocation:   pkg.Pickup().Coordinates(),
		DeliveryAddress:  pkg.Delivery().String(),
		DeliveryLocation: pkg.Delivery().Coordinates(),
		CustomerPhone:    customerPhone,
		DeliveryStart:    pkg.DeliveryPeriod().Start(),
		DeliveryEnd:      pkg.DeliveryPeriod().End(),
		EstimatedMinutes: result.EstimatedMinutes,
	})
	if err != nil {
		h.log.Warn("failed to notify courier",
			"package_id", pkg.ID().String(),
			"courier_id", chosen.ID().String(),
			"error", err,
		)
	}
}

func assignmentOutcome(err error) string {
	var validationErr *services.AssignmentValidationError
	switch {
	case err == nil:
		return metrics.OutcomeAssigned
	case errors.Is(err, ErrNoAvailableCourier):
		return metrics.OutcomeNoCourier
	case errors.As(err, &validationErr), errors.Is(err, ErrCourierNotAvailable):
		return metrics.OutcomeValidationFailed
	default:
		return metrics.OutcomeError
	}
}
