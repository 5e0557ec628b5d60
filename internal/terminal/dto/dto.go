package dto

import (
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/selection"
)

// CartView is what a terminal shows: lines in insertion order and totals
// computed on read.
type CartView struct {
	Lines          []model.CartLineItem `json:"lines"`
	ItemCount      int                  `json:"itemCount"`
	Totals         model.Totals         `json:"totals"`
	FormattedTotal string               `json:"formattedTotal"`
	Customer       *model.Customer      `json:"customer,omitempty"`
}

type AddOutcome string

const (
	OutcomeAdded     AddOutcome = "added"
	OutcomeSelection AddOutcome = "selection"
)

// AddResult tells the terminal whether the product went straight into the
// cart or a batch must be picked first.
type AddResult struct {
	Outcome   AddOutcome          `json:"outcome"`
	Line      *model.CartLineItem `json:"line,omitempty"`
	Selection *selection.View     `json:"selection,omitempty"`
	Cart      *CartView           `json:"cart"`
}

type CheckoutResult struct {
	Order          *model.Order `json:"order"`
	Totals         model.Totals `json:"totals"`
	FormattedTotal string       `json:"formattedTotal"`
}
