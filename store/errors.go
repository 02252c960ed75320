package store

import "errors"

// Error kinds returned by store operations. Handlers map these onto HTTP
// status codes; everything else is treated as an internal error.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)
