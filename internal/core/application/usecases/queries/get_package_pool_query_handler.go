package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// GetPackagePoolQueryHandler returns pooled packages urgent first, then
// oldest first, as ordered by the repository.
type GetPackagePoolQueryHandler struct {
	packageRepo ports.PackageRepository
}

func NewGetPackagePoolQueryHandler(packageRepo ports.PackageRepository) GetPackagePoolQueryHandler {
	return GetPackagePoolQueryHandler{packageRepo: packageRepo}
}

func (h GetPackagePoolQueryHandler) Handle(ctx context.Context, query GetPackagePoolQuery) ([]PackageView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	packages, err := h.packageRepo.GetPool(ctx, query.Zone(), query.Limit())
	if err != nil {
		return nil, err
	}

	views := make([]PackageView, 0, len(packages))
	for _, p := range packages {
		views = append(views, newPackageView(p))
	}
	return views, nil
}
