package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/settings"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

type fakeRepo struct {
	rows    []model.CustomerDiscount
	upserts []model.CustomerDiscount
	err     error
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]model.CustomerDiscount, error) {
	return f.rows, f.err
}

func (f *fakeRepo) Upsert(ctx context.Context, d *model.CustomerDiscount) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, *d)
	return nil
}

func TestDiscountTable(t *testing.T) {
	repo := &fakeRepo{rows: []model.CustomerDiscount{
		{CustomerType: model.CustomerGuest, Percentage: 50},
		{CustomerType: model.CustomerVIP, Percentage: 20},
	}}
	uc := NewSettingsUseCase(repo, logger.NewNop())

	table, err := uc.DiscountTable(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.DiscountTable{
		model.CustomerGuest:     0,
		model.CustomerRetail:    0,
		model.CustomerWholesale: 0,
		model.CustomerVIP:       20,
	}, table)
}

func TestListDiscountsOrder(t *testing.T) {
	uc := NewSettingsUseCase(&fakeRepo{}, logger.NewNop())

	rows, err := uc.ListDiscounts(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, len(model.CustomerTypes))
	for i, ct := range model.CustomerTypes {
		assert.Equal(t, ct, rows[i].CustomerType)
	}
}

func TestDiscountTableRepoError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewSettingsUseCase(&fakeRepo{err: boom}, logger.NewNop())

	_, err := uc.DiscountTable(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestUpdateDiscount(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewSettingsUseCase(repo, logger.NewNop())

	d, err := uc.UpdateDiscount(context.Background(), model.CustomerWholesale, 12.5)

	require.NoError(t, err)
	assert.Equal(t, 12.5, d.Percentage)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, model.CustomerWholesale, repo.upserts[0].CustomerType)
	assert.False(t, repo.upserts[0].UpdatedAt.IsZero())
}

func TestUpdateDiscountValidation(t *testing.T) {
	tests := []struct {
		name string
		ct   model.CustomerType
		pct  float64
		want error
	}{
		{"unknown type", "platinum", 10, settings.ErrUnknownCustomerType},
		{"guest", model.CustomerGuest, 5, settings.ErrGuestFixed},
		{"negative", model.CustomerVIP, -1, settings.ErrInvalidPercentage},
		{"over 100", model.CustomerVIP, 100.5, settings.ErrInvalidPercentage},
		{"nan", model.CustomerVIP, math.NaN(), settings.ErrInvalidPercentage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			uc := NewSettingsUseCase(repo, logger.NewNop())

			_, err := uc.UpdateDiscount(context.Background(), tt.ct, tt.pct)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, repo.upserts)
		})
	}
}

func TestUpdateDiscountBounds(t *testing.T) {
	uc := NewSettingsUseCase(&fakeRepo{}, logger.NewNop())

	for _, pct := range []float64{0, 100} {
		_, err := uc.UpdateDiscount(context.Background(), model.CustomerRetail, pct)
		assert.NoError(t, err)
	}
}
