// Package cart holds the lines of one POS session and computes its totals.
package cart

import (
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pricing"
)

// Cart is the line collection of a single terminal session. It is not safe
// for concurrent use; the terminal serializes access.
type Cart struct {
	order []string
	lines map[string]*model.CartLineItem
}

func New() *Cart {
	return &Cart{lines: make(map[string]*model.CartLineItem)}
}

// LineKey identifies a line: the product id, or product id and batch id for
// batch lines, so one product can sit on several lines from different batches.
func LineKey(productID, batchID string) string {
	if batchID == "" {
		return productID
	}
	return productID + "-" + batchID
}

// AddSimple adds one unit of a product that is sold without picking a batch.
func (c *Cart) AddSimple(p *model.Product) (model.CartLineItem, error) {
	key := LineKey(p.ID, "")

	if line, ok := c.lines[key]; ok {
		// the product passed in is the freshest snapshot we have
		if line.Quantity+1 > p.AvailableStock {
			return model.CartLineItem{}, exceedsStock(p.Name, p.AvailableStock)
		}
		line.Quantity++
		line.AvailableStock = p.AvailableStock
		return *line, nil
	}

	if p.AvailableStock < 1 {
		return model.CartLineItem{}, noStock(p.Name)
	}

	line := &model.CartLineItem{
		Key:            key,
		ProductID:      p.ID,
		ProductCode:    p.ProductCode,
		Name:           p.Name,
		ImageURL:       p.ImageURL,
		Quantity:       1,
		Price:          pricing.DiscountedPrice(p.BasePrice, p.DiscountPercentage),
		OriginalPrice:  p.BasePrice,
		AvailableStock: p.AvailableStock,
	}
	c.insert(line)
	return *line, nil
}

// AddWithBatch adds quantity units taken from a specific batch. Additions that
// would exceed the batch's shelf stock are rejected whole.
func (c *Cart) AddWithBatch(p *model.Product, b *model.Batch, quantity int) (model.CartLineItem, error) {
	if quantity < 1 {
		return model.CartLineItem{}, ErrInvalidQuantity
	}
	if b.QuantityOnShelf < 1 {
		return model.CartLineItem{}, noStock(p.Name)
	}

	key := LineKey(p.ID, b.ID)

	if line, ok := c.lines[key]; ok {
		if line.Quantity+quantity > b.QuantityOnShelf {
			return model.CartLineItem{}, exceedsStock(p.Name, b.QuantityOnShelf-line.Quantity)
		}
		line.Quantity += quantity
		line.AvailableStock = b.QuantityOnShelf
		return *line, nil
	}

	if quantity > b.QuantityOnShelf {
		return model.CartLineItem{}, exceedsStock(p.Name, b.QuantityOnShelf)
	}

	line := &model.CartLineItem{
		Key:            key,
		ProductID:      p.ID,
		ProductCode:    p.ProductCode,
		Name:           p.Name,
		ImageURL:       p.ImageURL,
		Quantity:       quantity,
		Price:          pricing.DiscountedPrice(b.UnitPrice, b.DiscountPercentage),
		OriginalPrice:  b.UnitPrice,
		AvailableStock: b.QuantityOnShelf,
		Batch: &model.LineBatch{
			ID:                 b.ID,
			BatchCode:          b.BatchCode,
			ExpiryDate:         b.ExpiryDate,
			OriginalPrice:      b.UnitPrice,
			DiscountPercentage: b.DiscountPercentage,
		},
	}
	c.insert(line)
	return *line, nil
}

// UpdateQuantity replaces a line's quantity. Zero or less removes the line.
// Quantities above the line's recorded stock are rejected, not clamped.
func (c *Cart) UpdateQuantity(key string, quantity int) (model.CartLineItem, error) {
	line, ok := c.lines[key]
	if !ok {
		return model.CartLineItem{}, ErrLineNotFound
	}
	if quantity <= 0 {
		c.Remove(key)
		return model.CartLineItem{}, nil
	}
	if quantity > line.AvailableStock {
		return model.CartLineItem{}, exceedsStock(line.Name, line.AvailableStock)
	}
	line.Quantity = quantity
	return *line, nil
}

// Remove deletes a line. It reports whether the line existed.
func (c *Cart) Remove(key string) bool {
	if _, ok := c.lines[key]; !ok {
		return false
	}
	delete(c.lines, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the cart once the cashier has confirmed.
func (c *Cart) Clear(confirmed bool) error {
	if !confirmed {
		return ErrClearNotConfirmed
	}
	c.Reset()
	return nil
}

// Reset empties the cart without asking, for logout and completed checkouts.
func (c *Cart) Reset() {
	c.order = nil
	c.lines = make(map[string]*model.CartLineItem)
}

// Lines returns copies of the lines in insertion order.
func (c *Cart) Lines() []model.CartLineItem {
	out := make([]model.CartLineItem, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.lines[k])
	}
	return out
}

func (c *Cart) Line(key string) (model.CartLineItem, bool) {
	line, ok := c.lines[key]
	if !ok {
		return model.CartLineItem{}, false
	}
	return *line, true
}

func (c *Cart) Len() int {
	return len(c.order)
}

func (c *Cart) insert(line *model.CartLineItem) {
	c.lines[line.Key] = line
	c.order = append(c.order, line.Key)
}
