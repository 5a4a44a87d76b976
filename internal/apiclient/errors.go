package apiclient

import (
	"errors"
	"fmt"
)

// errMalformed marks a response body that could not be decoded.
var errMalformed = errors.New("malformed response body")

// TransportError means no usable response was obtained: the request failed to
// send, the body could not be read, or the body was not the expected JSON.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("apiclient.%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError means the backend answered with a non-2xx status.
// Detail is the server's "detail" text and may be empty.
type ApplicationError struct {
	Op     string
	Status int
	Detail string
}

func (e *ApplicationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("apiclient.%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("apiclient.%s: status %d: %s", e.Op, e.Status, e.Detail)
}

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// AsApplication returns the *ApplicationError in err's chain, if any.
func AsApplication(err error) (*ApplicationError, bool) {
	var ae *ApplicationError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
