package domain

import (
	"errors"
	"time"
)

// ErrTokenInvalid covers both unknown and expired refresh tokens. A single
// sentinel keeps the client-facing message identical for the two cases so the
// response never reveals whether a token ever existed.
var ErrTokenInvalid = errors.New("invalid or expired refresh token")

// RefreshToken is one persisted session secret. Tokens are keyed by the
// immutable user id, so outstanding rows survive an email change untouched.
// A value is valid only while it exists AND ExpiresAt is in the future.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the token's lifetime has elapsed at the given time.
// Expired rows may still be physically present; they must never redeem.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
