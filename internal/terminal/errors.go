package terminal

import (
	"fmt"

	"github.com/fekuna/omnipos-pos-service/pkg/apperror"
)

const (
	MsgScanCooldown      = "scan.cooldown"
	MsgScanInFlight      = "scan.in_flight"
	MsgProductNotFound   = "product.not_found"
	MsgProductOutOfStock = "product.out_of_stock"
	MsgCheckoutInFlight  = "checkout.in_flight"
)

var (
	ErrScanCooldown     = apperror.New(apperror.CodeFailedPrecondition, MsgScanCooldown, "code was just scanned")
	ErrScanInFlight     = apperror.New(apperror.CodeFailedPrecondition, MsgScanInFlight, "previous scan still in progress")
	ErrProductNotFound  = apperror.New(apperror.CodeNotFound, MsgProductNotFound, "product not found")
	ErrOutOfStock       = apperror.New(apperror.CodeFailedPrecondition, MsgProductOutOfStock, "product is out of stock")
	ErrCheckoutInFlight = apperror.New(apperror.CodeFailedPrecondition, MsgCheckoutInFlight, "checkout in progress")
)

func ScanCooldown(code string) *apperror.Error {
	return ErrScanCooldown.With(
		fmt.Sprintf("code %s was just scanned", code),
		map[string]interface{}{"Code": code},
	)
}

func ProductNotFound(code string) *apperror.Error {
	return ErrProductNotFound.With(
		fmt.Sprintf("product %s not found", code),
		map[string]interface{}{"Code": code},
	)
}

func OutOfStock(name string) *apperror.Error {
	return ErrOutOfStock.With(
		fmt.Sprintf("%s is out of stock", name),
		map[string]interface{}{"Name": name},
	)
}

const MsgTerminalRequired = "terminal.required"

var ErrTerminalRequired = apperror.New(apperror.CodeInvalidArgument, MsgTerminalRequired, "missing terminal id")
