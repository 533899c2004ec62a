// Package geolocation routes location side effects of other commands into
// the location tracking use case of the same process.
package geolocation

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// SaveLocationHandler records a position.
type SaveLocationHandler interface {
	Handle(ctx context.Context, cmd commands.SaveLocationCommand) (commands.SaveLocationResult, error)
}

type Bridge struct {
	handler SaveLocationHandler
}

var _ ports.GeolocationService = (*Bridge)(nil)

func NewBridge(handler SaveLocationHandler) *Bridge {
	return &Bridge{handler: handler}
}

func (b *Bridge) UpdateLocation(ctx context.Context, courierID kernel.UUID, location kernel.Location) error {
	cmd, err := commands.NewSaveLocationCommand(courierID, location)
	if err != nil {
		return err
	}
	_, err = b.handler.Handle(ctx, cmd)
	return err
}
