package ports

import (
	"context"
	"time"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

// MessageFilter narrows a mailbox listing. PeerID limits the result to one
// conversation; Since drops messages sent at or before the given instant.
// Zero values mean "no filter".
type MessageFilter struct {
	UserID string
	PeerID string
	Since  time.Time
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	ListForUser(ctx context.Context, filter MessageFilter) ([]domain.Message, error)
}
