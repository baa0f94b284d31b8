package domain

import "errors"

var (
	// ErrInvalidName indicates a display name that failed validation.
	ErrInvalidName = errors.New("invalid subscriber name")

	// ErrInvalidEmail indicates a string that is not a valid email address.
	ErrInvalidEmail = errors.New("invalid subscriber email")
)
