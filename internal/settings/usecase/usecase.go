package usecase

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/settings"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

type settingsUseCase struct {
	repo   settings.Repository
	logger logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *settingsUseCase) ListDiscounts(ctx context.Context) ([]model.CustomerDiscount, error) {
	rows, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[model.CustomerType]model.CustomerDiscount, len(rows))
	for _, r := range rows {
		byType[r.CustomerType] = r
	}

	out := make([]model.CustomerDiscount, 0, len(model.CustomerTypes))
	for _, t := range model.CustomerTypes {
		d, ok := byType[t]
		if !ok {
			d = model.CustomerDiscount{CustomerType: t}
		}
		if t == model.CustomerGuest {
			d.Percentage = 0
		}
		out = append(out, d)
	}
	return out, nil
}

// DiscountTable is what totals are computed against. Guests never get a
// discount whatever the stored row says.
func (uc *settingsUseCase) DiscountTable(ctx context.Context) (model.DiscountTable, error) {
	rows, err := uc.ListDiscounts(ctx)
	if err != nil {
		return nil, err
	}
	table := make(model.DiscountTable, len(rows))
	for _, r := range rows {
		table[r.CustomerType] = r.Percentage
	}
	return table, nil
}

func (uc *settingsUseCase) UpdateDiscount(ctx context.Context, customerType model.CustomerType, percentage float64) (*model.CustomerDiscount, error) {
	if !customerType.Valid() {
		return nil, settings.UnknownCustomerType(string(customerType))
	}
	if customerType == model.CustomerGuest {
		return nil, settings.ErrGuestFixed
	}
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return nil, settings.ErrInvalidPercentage
	}

	d := &model.CustomerDiscount{
		CustomerType: customerType,
		Percentage:   percentage,
		UpdatedAt:    time.Now(),
	}
	if err := uc.repo.Upsert(ctx, d); err != nil {
		return nil, err
	}

	uc.logger.Info("customer discount updated",
		zap.String("customer_type", string(customerType)),
		zap.Float64("percentage", percentage),
	)
	return d, nil
}
