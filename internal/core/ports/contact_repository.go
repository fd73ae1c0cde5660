package ports

import (
	"context"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error)
	Exists(ctx context.Context, ownerID, contactID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error)
}
