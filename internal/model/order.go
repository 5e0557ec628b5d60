package model

type OrderItem struct {
	Product   string  `json:"product"`
	Batch     string  `json:"batch,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type OrderRequest struct {
	Customer      string      `json:"customer,omitempty"`
	Items         []OrderItem `json:"items"`
	DeliveryType  string      `json:"deliveryType"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
}

type Order struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber,omitempty"`
	Total       float64 `json:"total"`
	Status      string  `json:"status"`
}
