package model

import "time"

type Product struct {
	ID                 string    `json:"id"`
	ProductCode        string    `json:"productCode"`
	Name               string    `json:"name"`
	ImageURL           string    `json:"image,omitempty"`
	Category           *Category `json:"category,omitempty"`
	BasePrice          float64   `json:"price"`
	DiscountPercentage float64   `json:"discountPercentage"`
	// AvailableStock is the last known on-shelf quantity. Advisory only: the
	// store API re-validates stock when the order is submitted.
	AvailableStock int `json:"availableStock"`
	// RequiresBatchSelection is set when the API says so explicitly. Nil means
	// the API did not send the flag.
	RequiresBatchSelection *bool `json:"requiresBatchSelection,omitempty"`
}

func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// Batch is a receipt lot of one product. QuantityOnShelf is the only stock
// figure trusted for sale.
type Batch struct {
	ID                 string     `json:"id"`
	ProductID          string     `json:"productId"`
	BatchCode          string     `json:"batchCode"`
	ExpiryDate         *time.Time `json:"expiryDate,omitempty"`
	UnitPrice          float64    `json:"unitPrice"`
	DiscountPercentage float64    `json:"discountPercentage"`
	QuantityOnShelf    int        `json:"quantityOnShelf"`
}

// ProductLookup is the result of a by-code lookup with inventory and batches.
type ProductLookup struct {
	Product    Product `json:"product"`
	Batches    []Batch `json:"batches"`
	OutOfStock bool    `json:"outOfStock"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
