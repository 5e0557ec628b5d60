package usecase

import (
	"sync"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/cart"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/selection"
)

// station is the state of one terminal. mu guards every field; the workflow
// locks itself but its Confirm must run under mu because it writes the cart.
type station struct {
	mu       sync.Mutex
	cart     *cart.Cart
	workflow *selection.Workflow
	customer *model.Customer

	lastCode    string
	lastScanAt  time.Time
	scanning    bool
	checkingOut bool
}

func newStation(source selection.BatchSource, windowDays int) *station {
	c := cart.New()
	return &station{
		cart:     c,
		workflow: selection.NewWorkflow(source, c, windowDays),
	}
}
