package catalog

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
)

// Repository reads products and batches from the store API.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*model.ProductLookup, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, *model.Pagination, error)
	FindBatches(ctx context.Context, productID string) ([]model.Batch, error)
}
