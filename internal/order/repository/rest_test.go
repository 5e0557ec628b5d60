package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/order"
	"github.com/fekuna/omnipos-pos-service/pkg/metrics"
	"github.com/fekuna/omnipos-pos-service/pkg/restclient"
)

func newRepo(t *testing.T, h http.HandlerFunc) *RESTRepository {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := restclient.New(&restclient.Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
	return NewRESTRepository(client, metrics.NewNop())
}

func sampleRequest() *model.OrderRequest {
	return &model.OrderRequest{
		Customer: "c1",
		Items: []model.OrderItem{
			{Product: "p1", Quantity: 2, UnitPrice: 10000},
			{Product: "p2", Batch: "b1", Quantity: 3, UnitPrice: 40000},
		},
		DeliveryType:  "pickup",
		Status:        "completed",
		PaymentStatus: "paid",
	}
}

func TestCreateSendsCheckoutPayload(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body["customer"])
		assert.Equal(t, "pickup", body["deliveryType"])
		assert.Equal(t, "completed", body["status"])
		assert.Equal(t, "paid", body["paymentStatus"])

		items := body["items"].([]interface{})
		require.Len(t, items, 2)
		first := items[0].(map[string]interface{})
		_, hasBatch := first["batch"]
		assert.False(t, hasBatch)
		assert.Equal(t, "b1", items[1].(map[string]interface{})["batch"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order": {"_id": "o1", "orderNumber": "ORD-7", "total": {"$numberDecimal": "140000"}, "status": "completed"}}`))
	})

	o, err := repo.Create(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, "ORD-7", o.OrderNumber)
	assert.Equal(t, 140000.0, o.Total)
}

func TestCreateAcceptsBareOrder(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "o2", "total": 5, "status": "completed"}`))
	})

	o, err := repo.Create(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "o2", o.ID)
}

func TestCreateRejectionIsVerbatim(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "Không đủ tồn kho cho lô LOT-1"}`))
	})

	_, err := repo.Create(context.Background(), sampleRequest())

	var rejected *order.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, http.StatusBadRequest, rejected.Status)
	assert.Equal(t, "Không đủ tồn kho cho lô LOT-1", rejected.Error())
}

func TestCreateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	repo := NewRESTRepository(restclient.New(&restclient.Config{BaseURL: srv.URL, Timeout: time.Second}, nil), metrics.NewNop())

	_, err := repo.Create(context.Background(), sampleRequest())

	assert.ErrorIs(t, err, restclient.ErrUnavailable)
}
