package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type courierMocks struct {
	factory    *MockCourierUoWFactory
	uow        *MockCourierUoW
	repo       *MockCourierRepository
	stateCache *MockCourierStateCache
	publisher  *MockEventPublisher
}

func newCourierMocks() courierMocks {
	m := courierMocks{
		factory:    new(MockCourierUoWFactory),
		uow:        new(MockCourierUoW),
		repo:       new(MockCourierRepository),
		stateCache: new(MockCourierStateCache),
		publisher:  new(MockEventPublisher),
	}
	m.factory.On("Create").Return(m.uow).Once()
	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.uow.On("CourierRepository").Return(m.repo).Once()
	m.uow.On("Rollback", mock.Anything).Return(nil).Once()
	return m
}

// expectLoad wires loadCourier for an existing courier with the given hot state.
func (m courierMocks) expectLoad(c *courier.Courier, state courier.RuntimeState) {
	m.repo.On("Get", mock.Anything, c.ID()).Return(c, nil).Once()
	m.stateCache.On("GetState", mock.Anything, c.ID()).Return(state, true, nil).Once()
}

// expectMissingState wires loadCourier for a courier that has no hot state.
func (m courierMocks) expectMissingState(c *courier.Courier) {
	m.repo.On("Get", mock.Anything, c.ID()).Return(c, nil).Once()
	m.stateCache.On("GetState", mock.Anything, c.ID()).Return(courier.RuntimeState{}, false, nil).Once()
}

func (m courierMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.repo.AssertExpectations(t)
	m.stateCache.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func statusChange(from, to courier.Status) any {
	return mock.MatchedBy(func(e events.Event) bool {
		changed, ok := e.(events.CourierStatusChanged)
		return ok && changed.From == from && changed.To == to
	})
}

func unavailableState() courier.RuntimeState {
	return courier.RuntimeState{Status: courier.Unavailable, MaxLoad: 2, WorkZone: "Z1"}
}

func newRegisterCommand(t *testing.T) commands.RegisterCourierCommand {
	t.Helper()
	cmd, err := commands.NewRegisterCourierCommand(
		"John Doe", "+491234567890", "john@example.com",
		courier.Bicycle, 10, "Z1", testWorkHours(t, 9, 18, 1, 2, 3, 4, 5), nil,
	)
	require.NoError(t, err)
	return cmd
}

func TestRegisterCourierCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd := newRegisterCommand(t)

	m := newCourierMocks()
	mock.InOrder(
		m.repo.On("EmailExists", ctx, "john@example.com").Return(false, nil).Once(),
		m.repo.On("PhoneExists", ctx, "+491234567890").Return(false, nil).Once(),
		m.repo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Once(),
		m.uow.On("Commit", ctx).Return(nil).Once(),
		m.stateCache.On("InitState", ctx, cmd.CourierID(), courier.RuntimeState{
			Status:   courier.Unavailable,
			MaxLoad:  2,
			WorkZone: "Z1",
		}).Return(nil).Once(),
		m.publisher.On("Publish", ctx, eventNamed(events.CourierRegisteredName)).Return(nil).Once(),
	)

	handler := commands.NewRegisterCourierCommandHandler(m.factory, m.stateCache, m.publisher, logger.NewNop())

	// Act
	err := handler.Handle(ctx, cmd)

	// Assert
	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestRegisterCourierCommandHandler_Handle_DuplicateEmail(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd := newRegisterCommand(t)

	m := newCourierMocks()
	m.repo.On("EmailExists", ctx, "john@example.com").Return(true, nil).Once()

	handler := commands.NewRegisterCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

	// Act
	err := handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	assert.ErrorIs(t, err, commands.ErrEmailAlreadyTaken)
	m.repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestRegisterCourierCommandHandler_Handle_DuplicatePhone(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cmd := newRegisterCommand(t)

	m := newCourierMocks()
	m.repo.On("EmailExists", ctx, "john@example.com").Return(false, nil).Once()
	m.repo.On("PhoneExists", ctx, "+491234567890").Return(true, nil).Once()

	handler := commands.NewRegisterCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

	// Act
	err := handler.Handle(ctx, cmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrPhoneAlreadyTaken)
	m.assertExpectations(t)
}

func TestRegisterCourierCommandHandler_Handle_InvalidCommand(t *testing.T) {
	// Arrange
	ctx := t.Context()
	var invalidCmd commands.RegisterCourierCommand

	factory := new(MockCourierUoWFactory)
	handler := commands.NewRegisterCourierCommandHandler(factory, nil, nil, nil)

	// Act
	err := handler.Handle(ctx, invalidCmd)

	// Assert
	require.ErrorIs(t, err, commands.ErrRegisterCourierCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestRegisterCourierCommandHandler_Handle_BeginError(t *testing.T) {
	// Arrange
	ctx := t.Context()
	beginErr := errors.New("connection refused")

	uow := new(MockCourierUoW)
	uow.On("Begin", ctx).Return(beginErr).Once()
	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRegisterCourierCommandHandler(factory, nil, nil, nil)

	// Act
	err := handler.Handle(ctx, newRegisterCommand(t))

	// Assert
	require.ErrorIs(t, err, beginErr)
	uow.AssertExpectations(t)
}

func TestActivateCourierCommandHandler_Handle(t *testing.T) {
	t.Run("unavailable courier goes free", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, unavailableState())

		m := newCourierMocks()
		m.expectLoad(c, unavailableState())
		m.stateCache.On("SetStatus", ctx, c.ID(), courier.Free, "Z1").Return(nil).Once()
		m.publisher.On("Publish", ctx, statusChange(courier.Unavailable, courier.Free)).Return(nil).Once()

		cmd, err := commands.NewActivateCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewActivateCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("free courier is left alone", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))

		cmd, err := commands.NewActivateCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewActivateCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		m.stateCache.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("archived courier is rejected", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		archived := courier.RuntimeState{Status: courier.Archived, MaxLoad: 2, WorkZone: "Z1"}
		c := newCourier(t, archived)

		m := newCourierMocks()
		m.expectLoad(c, archived)

		cmd, err := commands.NewActivateCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewActivateCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.ErrorIs(t, err, courier.ErrCourierArchived)
		m.assertExpectations(t)
	})

	t.Run("missing hot state is initialized in full", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, unavailableState())

		m := newCourierMocks()
		m.expectMissingState(c)
		m.stateCache.On("InitState", ctx, c.ID(), courier.RuntimeState{
			Status:   courier.Free,
			MaxLoad:  courier.Bicycle.MaxLoad(),
			WorkZone: "Z1",
		}).Return(nil).Once()
		m.publisher.On("Publish", ctx, statusChange(courier.Unavailable, courier.Free)).Return(nil).Once()

		cmd, err := commands.NewActivateCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewActivateCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		m.stateCache.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("unknown courier", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		id := kernel.NewUUID()

		m := newCourierMocks()
		m.repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("courier", id)).Once()

		cmd, err := commands.NewActivateCourierCommand(id)
		require.NoError(t, err)

		handler := commands.NewActivateCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.ErrorIs(t, err, commands.ErrCourierNotFound)
		m.assertExpectations(t)
	})
}

func TestDeactivateCourierCommandHandler_Handle(t *testing.T) {
	t.Run("free courier goes offline", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))
		m.stateCache.On("SetStatus", ctx, c.ID(), courier.Unavailable, "Z1").Return(nil).Once()
		m.publisher.On("Publish", ctx, statusChange(courier.Free, courier.Unavailable)).Return(nil).Once()

		cmd, err := commands.NewDeactivateCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewDeactivateCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("courier with packages is rejected", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(1))

		m := newCourierMocks()
		m.expectLoad(c, freeState(1))

		cmd, err := commands.NewDeactivateCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewDeactivateCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.ErrorIs(t, err, courier.ErrCourierHasActivePackages)
		m.stateCache.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})
}

func TestArchiveCourierCommandHandler_Handle(t *testing.T) {
	t.Run("archives an idle courier", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))
		mock.InOrder(
			m.stateCache.On("SetStatus", ctx, c.ID(), courier.Archived, "Z1").Return(nil).Once(),
			m.repo.On("Archive", ctx, c.ID()).Return(nil).Once(),
			m.uow.On("Commit", ctx).Return(nil).Once(),
			m.publisher.On("Publish", ctx, statusChange(courier.Free, courier.Archived)).Return(nil).Once(),
		)

		cmd, err := commands.NewArchiveCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewArchiveCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("archived courier is rejected", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		archived := courier.RuntimeState{Status: courier.Archived, MaxLoad: 2, WorkZone: "Z1"}
		c := newCourier(t, archived)

		m := newCourierMocks()
		m.expectLoad(c, archived)

		cmd, err := commands.NewArchiveCourierCommand(c.ID())
		require.NoError(t, err)

		handler := commands.NewArchiveCourierCommandHandler(m.factory, m.stateCache, m.publisher, nil)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.ErrorIs(t, err, courier.ErrCourierArchived)
		m.repo.AssertNotCalled(t, "Archive", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})
}

func TestUpdateCourierContactInfoCommandHandler_Handle(t *testing.T) {
	t.Run("checks only changed values", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))
		sameEmail := c.Email()
		newPhone := "+499876543210"

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))
		m.repo.On("PhoneExists", ctx, newPhone).Return(false, nil).Once()
		m.repo.On("Update", ctx, c).Return(nil).Once()
		m.uow.On("Commit", ctx).Return(nil).Once()

		cmd, err := commands.NewUpdateCourierContactInfoCommand(c.ID(), &newPhone, &sameEmail, nil)
		require.NoError(t, err)

		handler := commands.NewUpdateCourierContactInfoCommandHandler(m.factory, m.stateCache)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newPhone, c.Phone())
		assert.Equal(t, 2, c.Version())
		m.repo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("taken email", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))
		email := "taken@example.com"

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))
		m.repo.On("EmailExists", ctx, email).Return(true, nil).Once()

		cmd, err := commands.NewUpdateCourierContactInfoCommand(c.ID(), nil, &email, nil)
		require.NoError(t, err)

		handler := commands.NewUpdateCourierContactInfoCommandHandler(m.factory, m.stateCache)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.ErrorIs(t, err, commands.ErrEmailAlreadyTaken)
		m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("requires a field", func(t *testing.T) {
		_, err := commands.NewUpdateCourierContactInfoCommand(kernel.NewUUID(), nil, nil, nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestUpdateCourierWorkScheduleCommandHandler_Handle(t *testing.T) {
	t.Run("zone change moves free-set membership", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))
		zone := "Z2"
		distance := 7.5

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))
		mock.InOrder(
			m.repo.On("Update", ctx, c).Return(nil).Once(),
			m.uow.On("Commit", ctx).Return(nil).Once(),
			m.stateCache.On("MoveZone", ctx, c.ID(), "Z1", "Z2").Return(nil).Once(),
		)

		cmd, err := commands.NewUpdateCourierWorkScheduleCommand(c.ID(), nil, &zone, &distance)
		require.NoError(t, err)

		handler := commands.NewUpdateCourierWorkScheduleCommandHandler(m.factory, m.stateCache)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Z2", c.WorkZone())
		assert.InDelta(t, 7.5, c.MaxDistanceKm(), 1e-9)
		m.assertExpectations(t)
	})

	t.Run("missing hot state is initialized in the new zone", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, unavailableState())
		zone := "Z2"

		m := newCourierMocks()
		m.expectMissingState(c)
		mock.InOrder(
			m.repo.On("Update", ctx, c).Return(nil).Once(),
			m.uow.On("Commit", ctx).Return(nil).Once(),
			m.stateCache.On("InitState", ctx, c.ID(), courier.RuntimeState{
				Status:   courier.Unavailable,
				MaxLoad:  courier.Bicycle.MaxLoad(),
				WorkZone: "Z2",
			}).Return(nil).Once(),
		)

		cmd, err := commands.NewUpdateCourierWorkScheduleCommand(c.ID(), nil, &zone, nil)
		require.NoError(t, err)

		// Act
		err = commands.NewUpdateCourierWorkScheduleCommandHandler(m.factory, m.stateCache).Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		m.stateCache.AssertNotCalled(t, "MoveZone", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("same zone skips the move", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))
		hours := testWorkHours(t, 22, 6)

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))
		m.repo.On("Update", ctx, c).Return(nil).Once()
		m.uow.On("Commit", ctx).Return(nil).Once()

		cmd, err := commands.NewUpdateCourierWorkScheduleCommand(c.ID(), &hours, nil, nil)
		require.NoError(t, err)

		handler := commands.NewUpdateCourierWorkScheduleCommandHandler(m.factory, m.stateCache)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		assert.True(t, c.WorkHours().IsOvernight())
		m.stateCache.AssertNotCalled(t, "MoveZone", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})
}

func TestChangeCourierTransportTypeCommandHandler_Handle(t *testing.T) {
	t.Run("writes the new max load", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(0))

		m := newCourierMocks()
		m.expectLoad(c, freeState(0))
		m.repo.On("Update", ctx, c).Return(nil).Once()
		m.uow.On("Commit", ctx).Return(nil).Once()
		m.stateCache.On("SetMaxLoad", ctx, c.ID(), 5).Return(nil).Once()

		cmd, err := commands.NewChangeCourierTransportTypeCommand(c.ID(), courier.Car)
		require.NoError(t, err)

		handler := commands.NewChangeCourierTransportTypeCommandHandler(m.factory, m.stateCache)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, courier.Car, c.TransportType())
		m.assertExpectations(t)
	})

	t.Run("missing hot state is initialized with the new max load", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, unavailableState())

		m := newCourierMocks()
		m.expectMissingState(c)
		m.repo.On("Update", ctx, c).Return(nil).Once()
		m.uow.On("Commit", ctx).Return(nil).Once()
		m.stateCache.On("InitState", ctx, c.ID(), courier.RuntimeState{
			Status:   courier.Unavailable,
			MaxLoad:  courier.Car.MaxLoad(),
			WorkZone: "Z1",
		}).Return(nil).Once()

		cmd, err := commands.NewChangeCourierTransportTypeCommand(c.ID(), courier.Car)
		require.NoError(t, err)

		// Act
		err = commands.NewChangeCourierTransportTypeCommandHandler(m.factory, m.stateCache).Handle(ctx, cmd)

		// Assert
		require.NoError(t, err)
		m.stateCache.AssertNotCalled(t, "SetMaxLoad", mock.Anything, mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})

	t.Run("rejected while carrying packages", func(t *testing.T) {
		// Arrange
		ctx := t.Context()
		c := newCourier(t, freeState(1))

		m := newCourierMocks()
		m.expectLoad(c, freeState(1))

		cmd, err := commands.NewChangeCourierTransportTypeCommand(c.ID(), courier.Car)
		require.NoError(t, err)

		handler := commands.NewChangeCourierTransportTypeCommandHandler(m.factory, m.stateCache)

		// Act
		err = handler.Handle(ctx, cmd)

		// Assert
		require.ErrorIs(t, err, courier.ErrCourierHasActivePackages)
		m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		m.assertExpectations(t)
	})
}
