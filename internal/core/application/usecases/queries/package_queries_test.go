package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/parcel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetPackageQueryHandler_Handle(t *testing.T) {
	// Arrange
	ctx := t.Context()
	p := newPooledPackage(t, parcel.Urgent)
	courierID := kernel.NewUUID()
	require.NoError(t, p.AssignTo(courierID))

	repo := new(MockPackageRepository)
	repo.On("Get", ctx, p.ID()).Return(p, nil).Once()

	query, err := queries.NewGetPackageQuery(p.ID())
	require.NoError(t, err)

	// Act
	view, err := queries.NewGetPackageQueryHandler(repo).Handle(ctx, query)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, p.ID(), view.ID)
	assert.Equal(t, parcel.Assigned, view.Status)
	assert.Equal(t, parcel.Urgent, view.Priority)
	require.NotNil(t, view.CourierID)
	assert.Equal(t, courierID, *view.CourierID)
	assert.NotNil(t, view.AssignedAt)
	assert.Nil(t, view.DeliveredAt)
	assert.Equal(t, "Alexanderplatz 1", view.Pickup.Street())
	assert.Equal(t, p.Version(), view.Version)
	repo.AssertExpectations(t)
}

func TestGetPackageQueryHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo := new(MockPackageRepository)
	repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("package", id)).Once()

	query, err := queries.NewGetPackageQuery(id)
	require.NoError(t, err)

	_, err = queries.NewGetPackageQueryHandler(repo).Handle(ctx, query)

	require.ErrorIs(t, err, queries.ErrPackageNotFound)
}

func TestGetPackagePoolQueryHandler_Handle(t *testing.T) {
	// Arrange
	ctx := t.Context()
	urgent := newPooledPackage(t, parcel.Urgent)
	normal := newPooledPackage(t, parcel.Normal)

	repo := new(MockPackageRepository)
	repo.On("GetPool", ctx, "Z1", queries.DefaultPoolLimit).
		Return([]*parcel.Package{urgent, normal}, nil).Once()

	query, err := queries.NewGetPackagePoolQuery(" Z1 ", 0)
	require.NoError(t, err)

	// Act
	views, err := queries.NewGetPackagePoolQueryHandler(repo).Handle(ctx, query)

	// Assert
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, urgent.ID(), views[0].ID)
	assert.Equal(t, normal.ID(), views[1].ID)
	assert.Equal(t, parcel.InPool, views[1].Status)
	repo.AssertExpectations(t)
}

func TestNewGetPackagePoolQuery(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default", limit: -1, wantLimit: queries.DefaultPoolLimit},
		{name: "explicit", limit: 20, wantLimit: 20},
		{name: "capped", limit: 10_000, wantLimit: queries.MaxPoolLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := queries.NewGetPackagePoolQuery("Z1", tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, query.Limit())
		})
	}

	_, err := queries.NewGetPackagePoolQuery("  ", 10)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetPackagePoolQueryHandler_Handle_InvalidQuery(t *testing.T) {
	repo := new(MockPackageRepository)

	_, err := queries.NewGetPackagePoolQueryHandler(repo).Handle(t.Context(), queries.GetPackagePoolQuery{})

	require.ErrorIs(t, err, queries.ErrGetPackagePoolQueryIsNotConstructed)
	repo.AssertNotCalled(t, "GetPool", mock.Anything, mock.Anything, mock.Anything)
}
