package common

import "errors"

var (

	// repository specific errors
	ErrNotFound = errors.New("not found")

	// service specific errors
	ErrValidation          = errors.New("validation error")
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNotFoundOrForbidden = errors.New("not found or not authorized")

	// upstream specific errors
	ErrNotConfigured = errors.New("service not configured")
	ErrUpstream      = errors.New("upstream request failed")

	// session specific errors
	ErrUnauthorized = errors.New("unauthorized")
)
