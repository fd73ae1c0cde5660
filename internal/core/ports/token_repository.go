package ports

import (
	"context"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

// RefreshTokenRepository persists opaque refresh-token records.
//
// Consume is the rotation primitive: it removes the record and returns it in
// a single atomic step, so two concurrent refresh calls presenting the same
// value can never both succeed. Absent and expired records both surface as
// domain.ErrTokenInvalid.
type RefreshTokenRepository interface {
	Store(ctx context.Context, token *domain.RefreshToken) error
	Consume(ctx context.Context, tokenValue string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, tokenValue string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
}
