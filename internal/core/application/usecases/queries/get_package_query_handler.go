package queries

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type GetPackageQueryHandler struct {
	packageRepo ports.PackageRepository
}

func NewGetPackageQueryHandler(packageRepo ports.PackageRepository) GetPackageQueryHandler {
	return GetPackageQueryHandler{packageRepo: packageRepo}
}

func (h GetPackageQueryHandler) Handle(ctx context.Context, query GetPackageQuery) (PackageView, error) {
	if err := query.Validate(); err != nil {
		return PackageView{}, err
	}

	aggregate, err := h.packageRepo.Get(ctx, query.PackageID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return PackageView{}, fmt.Errorf("%w: %w", ErrPackageNotFound, err)
	}
	if err != nil {
		return PackageView{}, err
	}

	return newPackageView(aggregate), nil
}
