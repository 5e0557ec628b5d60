package order

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error)
}
