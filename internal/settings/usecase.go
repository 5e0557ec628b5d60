package settings

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type UseCase interface {
	// ListDiscounts returns one row per known customer type, in a stable order.
	ListDiscounts(ctx context.Context) ([]model.CustomerDiscount, error)
	DiscountTable(ctx context.Context) (model.DiscountTable, error)
	UpdateDiscount(ctx context.Context, customerType model.CustomerType, percentage float64) (*model.CustomerDiscount, error)
}
