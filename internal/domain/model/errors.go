package model

import "errors"

// Domain error kinds shared by the store, the service and the API.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("task already completed")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnavailable      = errors.New("unavailable")
)
