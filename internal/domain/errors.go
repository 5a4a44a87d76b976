package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// activity does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a request is missing a required input such
// as the email query parameter.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrAlreadySignedUp is returned when the email is already on the activity's
// participant list. Handlers should map this to HTTP 400.
var ErrAlreadySignedUp = errors.New("already signed up")

// ErrNotSignedUp is returned when unregistering an email that is not on the
// participant list. Handlers should map this to HTTP 400.
var ErrNotSignedUp = errors.New("not signed up")
