package queries

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultPoolLimit = 50
	MaxPoolLimit     = 500
)

var ErrGetPackagePoolQueryIsNotConstructed = errors.New(
	"GetPackagePoolQuery must be created via NewGetPackagePoolQuery constructor",
)

// GetPackagePoolQuery lists the packages of a zone waiting for a courier.
// A non-positive limit means DefaultPoolLimit; larger limits are capped at
// MaxPoolLimit.
type GetPackagePoolQuery struct {
	zone  string
	limit int

	guard guard.ConstructorGuard
}

func NewGetPackagePoolQuery(zone string, limit int) (GetPackagePoolQuery, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return GetPackagePoolQuery{}, errs.NewValueIsRequiredError("zone")
	}
	switch {
	case limit <= 0:
		limit = DefaultPoolLimit
	case limit > MaxPoolLimit:
		limit = MaxPoolLimit
	}
	return GetPackagePoolQuery{zone: zone, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPackagePoolQuery) Validate() error {
	return q.guard.Validate(ErrGetPackagePoolQueryIsNotConstructed)
}

func (q GetPackagePoolQuery) Zone() string { return q.zone }
func (q GetPackagePoolQuery) Limit() int   { return q.limit }
