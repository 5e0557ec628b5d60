package model

import "time"

type LineBatch struct {
	ID                 string     `json:"id"`
	BatchCode          string     `json:"batchCode"`
	ExpiryDate         *time.Time `json:"expiryDate,omitempty"`
	OriginalPrice      float64    `json:"originalPrice"`
	DiscountPercentage float64    `json:"discountPercentage"`
}

// CartLineItem is one cart line. Price is the discount-adjusted unit price
// captured when the line was created, not a live reference.
type CartLineItem struct {
	Key            string     `json:"key"`
	ProductID      string     `json:"productId"`
	ProductCode    string     `json:"productCode,omitempty"`
	Name           string     `json:"name"`
	ImageURL       string     `json:"image,omitempty"`
	Quantity       int        `json:"quantity"`
	Price          float64    `json:"price"`
	OriginalPrice  float64    `json:"originalPrice"`
	AvailableStock int        `json:"availableStock"`
	Batch          *LineBatch `json:"batch,omitempty"`
}

func (l *CartLineItem) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

type Totals struct {
	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Shipping           float64 `json:"shipping"`
	Total              float64 `json:"total"`
}
