package terminal

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/selection"
	"github.com/fekuna/omnipos-pos-service/internal/terminal/dto"
)

// UseCase is the POS session of each terminal, keyed by terminal id.
type UseCase interface {
	AddProduct(ctx context.Context, terminalID, productCode string) (*dto.AddResult, error)
	Scan(ctx context.Context, terminalID, code string) (*dto.AddResult, error)
	UpdateQuantity(ctx context.Context, terminalID, key string, quantity int) (*dto.CartView, error)
	RemoveLine(ctx context.Context, terminalID, key string) (*dto.CartView, error)
	Clear(ctx context.Context, terminalID string, confirmed bool) (*dto.CartView, error)
	Cart(ctx context.Context, terminalID string) (*dto.CartView, error)

	Selection(ctx context.Context, terminalID string) selection.View
	ConfirmSelection(ctx context.Context, terminalID, batchID string, quantity int) (*dto.CartView, error)
	CancelSelection(ctx context.Context, terminalID string) selection.View

	SetCustomer(ctx context.Context, terminalID string, customer *model.Customer) (*dto.CartView, error)
	Checkout(ctx context.Context, terminalID string) (*dto.CheckoutResult, error)

	// Reset drops everything the terminal holds. Called on logout.
	Reset(ctx context.Context, terminalID string)
}
