package dto

import (
	"net/url"
	"strconv"
)

type ProductFilters struct {
	Category  string `json:"category,omitempty"`
	Search    string `json:"search,omitempty"`
	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

// Query renders the filters as store API query parameters. The POS only ever
// lists active products with their inventory.
func (f *ProductFilters) Query() url.Values {
	q := url.Values{}
	q.Set("isActive", "true")
	q.Set("withInventory", "true")
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.SortBy != "" {
		q.Set("sortBy", f.SortBy)
	}
	if f.SortOrder != "" {
		q.Set("sortOrder", f.SortOrder)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}
