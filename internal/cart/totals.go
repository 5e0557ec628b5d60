package cart

import "github.com/fekuna/omnipos-pos-service/internal/model"

// CalculateTotals derives the cart totals from scratch. Callers invoke it on
// every change instead of keeping running sums.
func CalculateTotals(lines []model.CartLineItem, customer *model.Customer, table model.DiscountTable) model.Totals {
	var subtotal float64
	for i := range lines {
		subtotal += lines[i].Subtotal()
	}

	pct := CustomerDiscountPercentage(customer, table)
	discount := subtotal * pct / 100

	return model.Totals{
		Subtotal:           subtotal,
		Discount:           discount,
		DiscountPercentage: pct,
		Shipping:           0, // pickup only
		Total:              subtotal - discount,
	}
}

// CustomerDiscountPercentage is 0 for no customer, guests and unknown types.
func CustomerDiscountPercentage(customer *model.Customer, table model.DiscountTable) float64 {
	if customer == nil || customer.CustomerType == model.CustomerGuest {
		return 0
	}
	pct, ok := table[customer.CustomerType]
	if !ok || pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
