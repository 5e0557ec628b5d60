package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-pos-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/pkg/middleware"
	"github.com/fekuna/omnipos-pos-service/pkg/restclient"
)

type fakeUseCase struct {
	filters *dto.ProductFilters
	err     error
}

func (f *fakeUseCase) LookupByCode(ctx context.Context, code string) (*model.ProductLookup, error) {
	return nil, nil
}

func (f *fakeUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, *model.Pagination, error) {
	f.filters = filters
	if f.err != nil {
		return nil, nil, f.err
	}
	if filters.Search == "none" {
		return nil, &model.Pagination{Page: 1, Limit: filters.Limit}, nil
	}
	return []model.Product{{ID: "p1", Name: "Milk", BasePrice: 20000}},
		&model.Pagination{Page: filters.Page, Limit: filters.Limit, Total: 1, TotalPages: 1}, nil
}

func (f *fakeUseCase) FetchBatches(ctx context.Context, productID string) ([]model.Batch, error) {
	return nil, nil
}

func (f *fakeUseCase) InvalidateListCache(ctx context.Context) error { return nil }

func serve(t *testing.T, uc *fakeUseCase, target string) *httptest.ResponseRecorder {
	t.Helper()
	log := logger.NewNop()
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	NewCatalogHandler(uc, log).Register(e.Group("/api/v1"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListProductsDefaults(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(t, uc, "/api/v1/products")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, uc.filters.Page)
	assert.Equal(t, 20, uc.filters.Limit)

	var body listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Milk", body.Products[0].Name)
	assert.Equal(t, 1, body.Pagination.Total)
}

func TestListProductsPassesFilters(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(t, uc, "/api/v1/products?category=c1&search=sua&sortBy=name&sortOrder=asc&page=3&limit=500")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &dto.ProductFilters{
		Category:  "c1",
		Search:    "sua",
		SortBy:    "name",
		SortOrder: "asc",
		Page:      3,
		Limit:     100,
	}, uc.filters)
}

func TestListProductsEmptyIsArray(t *testing.T) {
	rec := serve(t, &fakeUseCase{}, "/api/v1/products?search=none")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products":[]`)
}

func TestListProductsRejectsBadPaging(t *testing.T) {
	for _, target := range []string{
		"/api/v1/products?page=0",
		"/api/v1/products?page=abc",
		"/api/v1/products?limit=-1",
	} {
		t.Run(target, func(t *testing.T) {
			uc := &fakeUseCase{}

			rec := serve(t, uc, target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.filters)
		})
	}
}

func TestListProductsUpstreamDown(t *testing.T) {
	uc := &fakeUseCase{err: errors.Join(restclient.ErrUnavailable, errors.New("dial tcp: refused"))}

	rec := serve(t, uc, "/api/v1/products")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), middleware.CodeUpstreamUnavailable)
}
