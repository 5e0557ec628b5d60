package catalog

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type UseCase interface {
	// LookupByCode always reads through to the API: stock must be fresh.
	LookupByCode(ctx context.Context, code string) (*model.ProductLookup, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, *model.Pagination, error)
	FetchBatches(ctx context.Context, productID string) ([]model.Batch, error)
	InvalidateListCache(ctx context.Context) error
}
