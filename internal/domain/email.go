package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// SubscriberEmail is a syntactically valid email address. The zero value is
// invalid; construct one with NewSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// NewSubscriberEmail validates s as a bare address (no display-name part)
// and returns it as a SubscriberEmail.
func NewSubscriberEmail(s string) (SubscriberEmail, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return SubscriberEmail{}, fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	// mail.ParseAddress accepts "Name <addr>" forms; we store bare addresses only.
	if addr.Address != s {
		return SubscriberEmail{}, fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	local, _, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return SubscriberEmail{}, fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	return SubscriberEmail{value: s}, nil
}

func (e SubscriberEmail) String() string { return e.value }
