package domain

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// maxNameGraphemes bounds the display name length. Counted in grapheme
// clusters rather than bytes or runes so that composed emoji and combining
// marks count the way a human would count them.
const maxNameGraphemes = 256

// forbiddenNameChars are rejected outright: they have no place in a display
// name and are the usual suspects in injection payloads.
const forbiddenNameChars = `/()"<>\{}`

// SubscriberName is a validated display name. The zero value is invalid;
// construct one with NewSubscriberName.
type SubscriberName struct {
	value string
}

// NewSubscriberName validates s and returns it as a SubscriberName.
// The input is rejected when it is empty or whitespace-only, longer than
// 256 grapheme clusters, or contains a forbidden character.
func NewSubscriberName(s string) (SubscriberName, error) {
	if strings.TrimSpace(s) == "" {
		return SubscriberName{}, fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if uniseg.GraphemeClusterCount(s) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidName, maxNameGraphemes)
	}
	if strings.ContainsAny(s, forbiddenNameChars) {
		return SubscriberName{}, fmt.Errorf("%w: name contains a forbidden character", ErrInvalidName)
	}
	return SubscriberName{value: s}, nil
}

func (n SubscriberName) String() string { return n.value }
