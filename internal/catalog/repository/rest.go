package repository

import (
	"context"
	"net/url"

	"github.com/fekuna/omnipos-pos-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/pkg/metrics"
	"github.com/fekuna/omnipos-pos-service/pkg/restclient"
)

// RESTRepository reads the catalog from the store API.
type RESTRepository struct {
	Client  *restclient.Client
	Metrics *metrics.Metrics
}

func NewRESTRepository(client *restclient.Client, m *metrics.Metrics) *RESTRepository {
	return &RESTRepository{Client: client, Metrics: m}
}

func (r *RESTRepository) FindByCode(ctx context.Context, code string) (*model.ProductLookup, error) {
	defer r.Metrics.TrackUpstream("product_by_code")()

	query := url.Values{}
	query.Set("withInventory", "true")
	query.Set("withBatches", "true")
	query.Set("isActive", "true")

	var resp dto.LookupResponse
	if err := r.Client.Get(ctx, "/products/code/"+url.PathEscape(code), query, &resp); err != nil {
		return nil, err
	}
	return resp.ToModel(), nil
}

func (r *RESTRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, *model.Pagination, error) {
	defer r.Metrics.TrackUpstream("product_list")()

	var resp dto.ListResponse
	if err := r.Client.Get(ctx, "/products", f.Query(), &resp); err != nil {
		return nil, nil, err
	}

	products := make([]model.Product, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, resp.Products[i].ToModel())
	}
	return products, resp.Pagination, nil
}

func (r *RESTRepository) FindBatches(ctx context.Context, productID string) ([]model.Batch, error) {
	defer r.Metrics.TrackUpstream("product_batches")()

	query := url.Values{}
	query.Set("withInventory", "true")

	var resp dto.BatchesResponse
	if err := r.Client.Get(ctx, "/batches/product/"+url.PathEscape(productID), query, &resp); err != nil {
		return nil, err
	}
	return dto.BatchesToModel(resp.Batches, productID), nil
}
