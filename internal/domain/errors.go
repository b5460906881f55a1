package domain

import "errors"

var (
	// ErrNotFound means the product has neither a live source nor a static dataset
	ErrNotFound = errors.New("product not found")
	// ErrUnauthorized means no credential was available for a live fetch
	ErrUnauthorized = errors.New("authentication token not found")
	// ErrSourceEmpty means the live fetch succeeded with zero rows
	ErrSourceEmpty = errors.New("no records received from server")
	// ErrTransportFailure covers network and server errors on fetch
	ErrTransportFailure = errors.New("records service unavailable")
	// ErrMalformedResponse means the server answered but the body is not a list of rows
	ErrMalformedResponse = errors.New("malformed response from records service")
	ErrForbidden         = errors.New("manager capability required")
)

// TransportError keeps the raw failure detail for display
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return ErrTransportFailure.Error()
	}
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransportFailure, e.Err}
	}
	return []error{ErrTransportFailure}
}
