// Package common defines shared constants and sentinel errors used by the
// repository, service and HTTP layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorValidation    = errors.New("validation error")
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors. Their messages are returned to API clients verbatim.
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("username or password wrong")

	// Transport errors.
	ErrorInvalidRequestBody = errors.New("invalid request body")
)
