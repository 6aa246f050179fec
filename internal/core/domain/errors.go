package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternalServer = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("email already registered")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Loan application errors
var (
	ErrApplicationNotFound = errors.New("loan application not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrAlreadyReviewed     = errors.New("loan application already reviewed")
)

// Kind folds any error into one of the stable error kinds exposed to callers
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrApplicationNotFound), errors.Is(err, ErrCustomerNotFound), errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalidInput):
		return ErrInvalidInput
	case errors.Is(err, ErrForbidden):
		return ErrForbidden
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenRevoked), errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized
	case errors.Is(err, ErrAlreadyReviewed), errors.Is(err, ErrUserAlreadyExists), errors.Is(err, ErrConflict):
		return ErrConflict
	default:
		return ErrInternalServer
	}
}
