package repository

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/order"
	"github.com/fekuna/omnipos-pos-service/internal/order/dto"
	"github.com/fekuna/omnipos-pos-service/pkg/metrics"
	"github.com/fekuna/omnipos-pos-service/pkg/restclient"
)

type RESTRepository struct {
	Client  *restclient.Client
	Metrics *metrics.Metrics
}

func NewRESTRepository(client *restclient.Client, m *metrics.Metrics) *RESTRepository {
	return &RESTRepository{Client: client, Metrics: m}
}

// Create submits the order once. Server-side refusals come back as
// *order.RejectedError.
func (r *RESTRepository) Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	defer r.Metrics.TrackUpstream("order_create")()

	var resp dto.CreateResponse
	if err := r.Client.Post(ctx, "/orders", req, &resp); err != nil {
		var apiErr *restclient.APIError
		if errors.As(err, &apiErr) {
			return nil, &order.RejectedError{Status: apiErr.Status, Message: apiErr.Message}
		}
		return nil, err
	}
	return resp.Order.ToModel(), nil
}
