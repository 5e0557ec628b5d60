package cart

import (
	"fmt"

	"github.com/fekuna/omnipos-pos-service/pkg/apperror"
)

// Error is a rejected cart operation. The cart is never modified when one is returned.
type Error = apperror.Error

type Code = apperror.Code

const (
	CodeInvalidArgument    = apperror.CodeInvalidArgument
	CodeFailedPrecondition = apperror.CodeFailedPrecondition
	CodeNotFound           = apperror.CodeNotFound
)

// Message IDs double as i18n keys.
const (
	MsgExceedsStock      = "cart.exceeds_stock"
	MsgInvalidQuantity   = "cart.invalid_quantity"
	MsgLineNotFound      = "cart.line_not_found"
	MsgClearNotConfirmed = "cart.clear_not_confirmed"
	MsgNoStock           = "cart.no_stock"
	MsgEmpty             = "cart.empty"
)

var (
	ErrExceedsStock      = apperror.New(CodeFailedPrecondition, MsgExceedsStock, "quantity exceeds available stock")
	ErrInvalidQuantity   = apperror.New(CodeInvalidArgument, MsgInvalidQuantity, "quantity must be at least 1")
	ErrLineNotFound      = apperror.New(CodeNotFound, MsgLineNotFound, "line not in cart")
	ErrClearNotConfirmed = apperror.New(CodeFailedPrecondition, MsgClearNotConfirmed, "clearing the cart needs confirmation")
	ErrNoStock           = apperror.New(CodeFailedPrecondition, MsgNoStock, "product is out of stock")
	ErrEmpty             = apperror.New(CodeFailedPrecondition, MsgEmpty, "cart is empty")
)

func exceedsStock(name string, available int) *Error {
	return ErrExceedsStock.With(
		fmt.Sprintf("only %d of %s left in stock", available, name),
		map[string]interface{}{"Name": name, "Available": available},
	)
}

func noStock(name string) *Error {
	return ErrNoStock.With(
		fmt.Sprintf("%s is out of stock", name),
		map[string]interface{}{"Name": name},
	)
}
