package ports

import (
	"context"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

// TokenSigner mints signed access tokens. Verification belongs to the HTTP
// middleware, which only ever sees the public key.
type TokenSigner interface {
	Sign(user *domain.User) (string, error)
	PublicKeyPEM() []byte
}

// PasswordHasher produces and checks salted one-way digests. Verify returns
// false for a malformed digest instead of failing, so callers can keep the
// "unknown user" and "wrong password" paths indistinguishable.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// LoginThrottle limits failed credential attempts per account identifier.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
