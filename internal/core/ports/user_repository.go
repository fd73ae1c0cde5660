package ports

import (
	"context"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

// UserRepository is the credential store. Every lookup applies the active
// filter in one place, so deactivated accounts can never leak back in through
// a lookup that forgot the predicate.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
