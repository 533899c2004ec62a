package events_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Identity(t *testing.T) {
	packageID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

	tests := []struct {
		event    events.Event
		name     string
		entityID kernel.UUID
	}{
		{events.PackageAccepted{PackageID: packageID, OccurredAt: at}, events.PackageAcceptedName, packageID},
		{events.PackageAssigned{PackageID: packageID, CourierID: courierID, OccurredAt: at}, events.PackageAssignedName, packageID},
		{events.PackageInTransit{PackageID: packageID, OccurredAt: at}, events.PackageInTransitName, packageID},
		{events.PackageDelivered{PackageID: packageID, OccurredAt: at}, events.PackageDeliveredName, packageID},
		{events.PackageNotDelivered{PackageID: packageID, OccurredAt: at}, events.PackageNotDeliveredName, packageID},
		{events.PackageRequiresHandling{PackageID: packageID, OccurredAt: at}, events.PackageRequiresHandlingName, packageID},
		{events.CourierRegistered{CourierID: courierID, OccurredAt: at}, events.CourierRegisteredName, courierID},
		{events.CourierStatusChanged{CourierID: courierID, OccurredAt: at}, events.CourierStatusChangedName, courierID},
		{events.CourierLocationUpdated{CourierID: courierID, OccurredAt: at}, events.CourierLocationUpdatedName, courierID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.event.Name())
			assert.True(t, tt.event.EntityID().IsEqual(tt.entityID))
			assert.Equal(t, at, tt.event.At())
		})
	}
}

func TestNewPackageAccepted(t *testing.T) {
	point, err := kernel.NewCoordinates(52.5, 13.4)
	require.NoError(t, err)
	address, err := parcel.NewAddress("Main St 1", "Berlin", "10115", point)
	require.NoError(t, err)
	period, err := parcel.NewDeliveryPeriod(time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	p, err := parcel.NewPackage(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), parcel.Contact{},
		address, address, period, 3, parcel.Urgent, "Z1")
	require.NoError(t, err)

	e := events.NewPackageAccepted(p, time.Now())

	assert.True(t, e.PackageID.IsEqual(p.ID()))
	assert.True(t, e.OrderID.IsEqual(p.OrderID()))
	assert.Equal(t, "Z1", e.Zone)
	assert.Equal(t, parcel.Urgent, e.Priority)
	assert.True(t, e.Pickup.IsEqual(point))
}

func TestNewCourierStatusChanged(t *testing.T) {
	id := kernel.NewUUID()

	_, ok := events.NewCourierStatusChanged(id, courier.Free, courier.Free, time.Now())
	assert.False(t, ok)

	e, ok := events.NewCourierStatusChanged(id, courier.Free, courier.Busy, time.Now())
	require.True(t, ok)
	assert.Equal(t, courier.Free, e.From)
	assert.Equal(t, courier.Busy, e.To)
}
