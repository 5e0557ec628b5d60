package settings

import (
	"fmt"

	"github.com/fekuna/omnipos-pos-service/pkg/apperror"
)

const (
	MsgInvalidPercentage   = "settings.invalid_percentage"
	MsgUnknownCustomerType = "settings.unknown_customer_type"
	MsgGuestFixed          = "settings.guest_fixed"
)

var (
	ErrInvalidPercentage   = apperror.New(apperror.CodeInvalidArgument, MsgInvalidPercentage, "discount must be between 0 and 100")
	ErrUnknownCustomerType = apperror.New(apperror.CodeInvalidArgument, MsgUnknownCustomerType, "unknown customer type")
	ErrGuestFixed          = apperror.New(apperror.CodeFailedPrecondition, MsgGuestFixed, "guest discount is fixed at 0")
)

func UnknownCustomerType(t string) *apperror.Error {
	return ErrUnknownCustomerType.With(
		fmt.Sprintf("unknown customer type %q", t),
		map[string]interface{}{"Type": t},
	)
}
