package subscriberrepo

import "errors"

var (
	// ErrNotFound indicates the requested subscriber does not exist.
	ErrNotFound = errors.New("subscriber not found")

	// ErrEmailTaken indicates a subscriber already exists for the email address.
	ErrEmailTaken = errors.New("subscriber email already taken")
)
