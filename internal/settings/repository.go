package settings

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.CustomerDiscount, error)
	Upsert(ctx context.Context, d *model.CustomerDiscount) error
}
