package http

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
)

// CommandHandler is a use case that only reports success or failure.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// Handler is a use case that returns a result.
type Handler[Q, R any] interface {
	Handle(ctx context.Context, in Q) (R, error)
}

type CommandHandlerFunc[C any] func(ctx context.Context, cmd C) error

func (f CommandHandlerFunc[C]) Handle(ctx context.Context, cmd C) error {
	return f(ctx, cmd)
}

type HandlerFunc[Q, R any] func(ctx context.Context, in Q) (R, error)

func (f HandlerFunc[Q, R]) Handle(ctx context.Context, in Q) (R, error) {
	return f(ctx, in)
}

// Handlers are the use cases exposed over HTTP.
type Handlers struct {
	// Courier commands
	RegisterCourier     CommandHandler[commands.RegisterCourierCommand]
	ActivateCourier     CommandHandler[commands.ActivateCourierCommand]
	DeactivateCourier   CommandHandler[commands.DeactivateCourierCommand]
	ArchiveCourier      CommandHandler[commands.ArchiveCourierCommand]
	UpdateContactInfo   CommandHandler[commands.UpdateCourierContactInfoCommand]
	UpdateWorkSchedule  CommandHandler[commands.UpdateCourierWorkScheduleCommand]
	ChangeTransportType CommandHandler[commands.ChangeCourierTransportTypeCommand]

	// Package commands
	AcceptOrder  CommandHandler[commands.AcceptOrderCommand]
	AssignOrder  Handler[commands.AssignOrderCommand, commands.AssignOrderResult]
	PickUpOrder  CommandHandler[commands.PickUpOrderCommand]
	DeliverOrder CommandHandler[commands.DeliverOrderCommand]
	ReturnToPool CommandHandler[commands.ReturnToPoolCommand]

	SaveLocation Handler[commands.SaveLocationCommand, commands.SaveLocationResult]

	// Queries
	GetCourier          Handler[queries.GetCourierQuery, queries.CourierView]
	GetFreeCouriers     Handler[queries.GetFreeCouriersQuery, []queries.CourierView]
	GetPackage          Handler[queries.GetPackageQuery, queries.PackageView]
	GetPackagePool      Handler[queries.GetPackagePoolQuery, []queries.PackageView]
	GetCourierLocation  Handler[queries.GetCourierLocationQuery, queries.LocationView]
	GetCourierLocations Handler[queries.GetCourierLocationsQuery, []queries.LocationView]
	GetLocationHistory  Handler[queries.GetLocationHistoryQuery, queries.GetLocationHistoryResponse]
}
