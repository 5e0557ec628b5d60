// Package apperror is the error type for operations a cashier can be told
// about. MessageID doubles as the i18n key.
package apperror

type Code string

const (
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
)

type Error struct {
	Code      Code
	MessageID string
	Message   string
	Data      map[string]interface{}
}

func New(code Code, messageID, message string) *Error {
	return &Error{Code: code, MessageID: messageID, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on MessageID so errors.Is works against package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.MessageID == e.MessageID
}

// With returns a copy carrying template data and a more specific message.
func (e *Error) With(message string, data map[string]interface{}) *Error {
	return &Error{Code: e.Code, MessageID: e.MessageID, Message: message, Data: data}
}
