package dto

import (
	"bytes"
	"encoding/json"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pricing"
)

type Order struct {
	MongoID     string        `json:"_id"`
	ID          string        `json:"id"`
	OrderNumber string        `json:"orderNumber"`
	Total       pricing.Price `json:"total"`
	Status      string        `json:"status"`
}

// CreateResponse accepts the order either bare or wrapped in {"order": ...}.
type CreateResponse struct {
	Order Order
}

func (r *CreateResponse) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Order json.RawMessage `json:"order"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(bytes.TrimSpace(wrapped.Order)) > 0 && wrapped.Order[0] == '{' {
		return json.Unmarshal(wrapped.Order, &r.Order)
	}
	return json.Unmarshal(data, &r.Order)
}

func (o *Order) ToModel() *model.Order {
	id := o.MongoID
	if id == "" {
		id = o.ID
	}
	return &model.Order{
		ID:          id,
		OrderNumber: o.OrderNumber,
		Total:       o.Total.Float64(),
		Status:      o.Status,
	}
}
