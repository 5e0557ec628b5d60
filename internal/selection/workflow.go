// Package selection runs the modal flow a cashier goes through when a product
// must be sold from a specific batch.
package selection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/batch"
	"github.com/fekuna/omnipos-pos-service/internal/cart"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pricing"
)

type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StatePresenting State = "presenting"
)

// BatchSource fetches the current batches of a product.
type BatchSource interface {
	FetchBatches(ctx context.Context, productID string) ([]model.Batch, error)
}

// RequiresBatchSelection reports whether p must be sold through the workflow.
// The API flag wins when it was sent. Without it, or in parity mode, any
// category whose name contains "fresh" in any case qualifies.
func RequiresBatchSelection(p *model.Product, parity bool) bool {
	if !parity && p.RequiresBatchSelection != nil {
		return *p.RequiresBatchSelection
	}
	return strings.Contains(strings.ToLower(p.CategoryName()), "fresh")
}

// Option is one batch offered to the cashier.
type Option struct {
	model.Batch
	Price           float64      `json:"price"`
	DaysUntilExpiry *int         `json:"daysUntilExpiry,omitempty"`
	Status          batch.Status `json:"status"`
}

// View is a snapshot of the workflow for display.
type View struct {
	State   State          `json:"state"`
	Product *model.Product `json:"product,omitempty"`
	Options []Option       `json:"options"`
}

// Workflow is the batch selection state machine of one terminal. Confirm
// writes to the cart, so callers must serialize it with their other cart
// mutations. Begin does not hold the lock while fetching.
type Workflow struct {
	mu         sync.Mutex
	source     BatchSource
	cart       *cart.Cart
	windowDays int
	now        func() time.Time

	state   State
	gen     uint64
	product *model.Product
	options []model.Batch
}

func NewWorkflow(source BatchSource, c *cart.Cart, windowDays int) *Workflow {
	if windowDays <= 0 {
		windowDays = batch.ExpiringWindow
	}
	return &Workflow{
		source:     source,
		cart:       c,
		windowDays: windowDays,
		now:        time.Now,
		state:      StateIdle,
	}
}

// Begin abandons any open flow, fetches the product's batches and presents
// the sellable ones. The cart is never touched.
func (w *Workflow) Begin(ctx context.Context, p *model.Product) error {
	product := *p

	w.mu.Lock()
	w.gen++
	gen := w.gen
	w.state = StateLoading
	w.product = &product
	w.options = nil
	w.mu.Unlock()

	batches, err := w.source.FetchBatches(ctx, product.ID)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.gen {
		return ErrSuperseded
	}
	if err != nil {
		w.toIdle()
		return fmt.Errorf("fetch batches of %s: %w", product.ID, err)
	}
	return w.present(&product, batches)
}

// Present opens the flow on batches the caller already holds, as a scan
// lookup does.
func (w *Workflow) Present(p *model.Product, batches []model.Batch) error {
	product := *p

	w.mu.Lock()
	defer w.mu.Unlock()

	w.gen++
	return w.present(&product, batches)
}

func (w *Workflow) present(p *model.Product, batches []model.Batch) error {
	options := batch.Selectable(batches)
	if len(options) == 0 {
		w.toIdle()
		return noSelectableBatch(p.Name)
	}
	w.state = StatePresenting
	w.product = p
	w.options = options
	return nil
}

func (w *Workflow) toIdle() {
	w.state = StateIdle
	w.product = nil
	w.options = nil
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Options returns a copy of the presented batches, earliest expiry first.
func (w *Workflow) Options() []model.Batch {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.Batch, len(w.options))
	copy(out, w.options)
	return out
}

func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{State: w.state, Options: make([]Option, 0, len(w.options))}
	if w.product != nil {
		p := *w.product
		v.Product = &p
	}
	now := w.now()
	for _, b := range w.options {
		opt := Option{
			Batch:  b,
			Price:  pricing.DiscountedPrice(b.UnitPrice, b.DiscountPercentage),
			Status: batch.Classify(b, now, w.windowDays),
		}
		if b.ExpiryDate != nil {
			days := batch.DaysUntilExpiry(*b.ExpiryDate, now)
			opt.DaysUntilExpiry = &days
		}
		v.Options = append(v.Options, opt)
	}
	return v
}

// ClampQuantity bounds quantity to 1..on-shelf of the chosen batch.
func (w *Workflow) ClampQuantity(batchID string, quantity int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.find(batchID)
	if !ok {
		return 0, ErrUnknownBatch
	}
	return clamp(quantity, b.QuantityOnShelf), nil
}

func clamp(quantity, max int) int {
	if quantity < 1 {
		return 1
	}
	if quantity > max {
		return max
	}
	return quantity
}

func (w *Workflow) find(batchID string) (model.Batch, bool) {
	for _, b := range w.options {
		if b.ID == batchID {
			return b, true
		}
	}
	return model.Batch{}, false
}

// Confirm adds the chosen batch to the cart and closes the flow. When the
// cart rejects the addition the flow stays open so the cashier can adjust.
func (w *Workflow) Confirm(batchID string, quantity int) (model.CartLineItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePresenting {
		return model.CartLineItem{}, ErrNotPresenting
	}
	b, ok := w.find(batchID)
	if !ok {
		return model.CartLineItem{}, ErrUnknownBatch
	}

	line, err := w.cart.AddWithBatch(w.product, &b, clamp(quantity, b.QuantityOnShelf))
	if err != nil {
		return model.CartLineItem{}, err
	}
	w.gen++
	w.toIdle()
	return line, nil
}

// Cancel closes the flow and drops any fetch still in flight.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.toIdle()
}
