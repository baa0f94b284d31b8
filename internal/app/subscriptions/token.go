package subscriptions

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	tokenLength   = 25
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// newSubscriptionToken draws a 25-character alphanumeric token uniformly from
// a cryptographically secure source. The 62^25 value space makes tokens
// unguessable and collisions negligible.
func newSubscriptionToken() (string, error) {
	var b strings.Builder
	b.Grow(tokenLength)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for range tokenLength {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate subscription token: %w", err)
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}
