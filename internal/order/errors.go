package order

import "github.com/fekuna/omnipos-pos-service/pkg/restclient"

// RejectedError is an order the store API refused, such as stock that ran
// out since the cart was built. Message is the server's text, unchanged.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Unwrap exposes the refusal as the API error it came from.
func (e *RejectedError) Unwrap() error {
	return &restclient.APIError{Status: e.Status, Message: e.Message}
}
