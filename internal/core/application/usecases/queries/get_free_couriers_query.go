package queries

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/guard"
)

var ErrGetFreeCouriersQueryIsNotConstructed = errors.New(
	"GetFreeCouriersQuery must be created via NewGetFreeCouriersQuery constructor",
)

// GetFreeCouriersQuery lists Free couriers of a zone, or of every zone when
// the zone is empty.
type GetFreeCouriersQuery struct {
	zone string

	guard guard.ConstructorGuard
}

func NewGetFreeCouriersQuery(zone string) GetFreeCouriersQuery {
	return GetFreeCouriersQuery{zone: strings.TrimSpace(zone), guard: guard.NewConstructorGuard()}
}

func (q GetFreeCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetFreeCouriersQueryIsNotConstructed)
}

func (q GetFreeCouriersQuery) Zone() string { return q.zone }
