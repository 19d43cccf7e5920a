package domain

import "errors"

// Error kinds. Service errors wrap one of these so the HTTP layer can pick a status.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("duplicate entry")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// Error carries a client-facing message together with its kind
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New builds an error of the given kind
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Invalid is shorthand for an ErrInvalidInput error
func Invalid(message string) error {
	return New(ErrInvalidInput, message)
}
