package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pricing"
)

// Product is the store API's product document. Ids come as "_id" or "id".
type Product struct {
	MongoID                string        `json:"_id"`
	ID                     string        `json:"id"`
	ProductCode            string        `json:"productCode"`
	Name                   string        `json:"name"`
	Image                  string        `json:"image"`
	Category               CategoryRef   `json:"category"`
	Price                  pricing.Price `json:"price"`
	DiscountPercentage     pricing.Price `json:"discountPercentage"`
	RequiresBatchSelection *bool         `json:"requiresBatchSelection"`
	Inventory              *Inventory    `json:"inventory"`
}

type Inventory struct {
	QuantityOnShelf float64 `json:"quantityOnShelf"`
}

// CategoryRef is either a populated category object or a bare id.
type CategoryRef struct {
	ID   string
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.ID)
	}
	var obj struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.ID = firstNonEmpty(obj.MongoID, obj.ID)
	c.Name = obj.Name
	return nil
}

type Batch struct {
	MongoID            string        `json:"_id"`
	ID                 string        `json:"id"`
	Product            CategoryRef   `json:"product"`
	BatchCode          string        `json:"batchCode"`
	ExpiryDate         *Date         `json:"expiryDate"`
	UnitPrice          pricing.Price `json:"unitPrice"`
	DiscountPercentage pricing.Price `json:"discountPercentage"`
	DetailInventory    *Inventory    `json:"detailInventory"`
}

// Date accepts RFC 3339 timestamps and plain dates. An empty string is no date.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("date: unrecognized format %q", s)
}

// LookupResponse is the body of GET /products/code/{code}.
type LookupResponse struct {
	Product    *Product   `json:"product"`
	Inventory  *Inventory `json:"inventory"`
	Batches    []Batch    `json:"batches"`
	OutOfStock bool       `json:"outOfStock"`
}

// ListResponse is the body of GET /products.
type ListResponse struct {
	Products   []Product         `json:"products"`
	Pagination *model.Pagination `json:"pagination"`
}

// BatchesResponse is the body of GET /batches/product/{id}. Older servers
// send the bare array.
type BatchesResponse struct {
	Batches []Batch `json:"batches"`
}

func (r *BatchesResponse) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &r.Batches)
	}
	var obj struct {
		Batches []Batch `json:"batches"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Batches = obj.Batches
	return nil
}

func (p *Product) ToModel() model.Product {
	m := model.Product{
		ID:                     firstNonEmpty(p.MongoID, p.ID),
		ProductCode:            p.ProductCode,
		Name:                   p.Name,
		ImageURL:               p.Image,
		BasePrice:              p.Price.Float64(),
		DiscountPercentage:     p.DiscountPercentage.Float64(),
		RequiresBatchSelection: p.RequiresBatchSelection,
	}
	if p.Category.ID != "" || p.Category.Name != "" {
		m.Category = &model.Category{ID: p.Category.ID, Name: p.Category.Name}
	}
	if p.Inventory != nil {
		m.AvailableStock = int(p.Inventory.QuantityOnShelf)
	}
	return m
}

func (b *Batch) ToModel(productID string) model.Batch {
	m := model.Batch{
		ID:                 firstNonEmpty(b.MongoID, b.ID),
		ProductID:          firstNonEmpty(b.Product.ID, productID),
		BatchCode:          b.BatchCode,
		UnitPrice:          b.UnitPrice.Float64(),
		DiscountPercentage: b.DiscountPercentage.Float64(),
	}
	if b.ExpiryDate != nil && !b.ExpiryDate.IsZero() {
		t := b.ExpiryDate.Time
		m.ExpiryDate = &t
	}
	if b.DetailInventory != nil {
		m.QuantityOnShelf = int(b.DetailInventory.QuantityOnShelf)
	}
	return m
}

func BatchesToModel(batches []Batch, productID string) []model.Batch {
	out := make([]model.Batch, 0, len(batches))
	for i := range batches {
		out = append(out, batches[i].ToModel(productID))
	}
	return out
}

// ToModel folds the lookup's separate inventory document into the product.
func (r *LookupResponse) ToModel() *model.ProductLookup {
	lookup := &model.ProductLookup{OutOfStock: r.OutOfStock}
	if r.Product != nil {
		lookup.Product = r.Product.ToModel()
	}
	if r.Inventory != nil {
		lookup.Product.AvailableStock = int(r.Inventory.QuantityOnShelf)
	}
	lookup.Batches = BatchesToModel(r.Batches, lookup.Product.ID)
	return lookup
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
