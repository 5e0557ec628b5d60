package model

import "time"

type CustomerDiscount struct {
	CustomerType CustomerType `db:"customer_type" json:"customerType"`
	Percentage   float64      `db:"percentage" json:"percentage"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}
