package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatwire/messaging-api/internal/core/ports"
)

type userService struct {
	users  ports.UserRepository
	tokens ports.RefreshTokenRepository
	log    zerolog.Logger
}

// NewUserService returns a ports.UserService covering the account directory
// and soft deactivation.
func NewUserService(users ports.UserRepository, tokens ports.RefreshTokenRepository, log zerolog.Logger) ports.UserService {
	return &userService{users: users, tokens: tokens, log: log}
}

func (s *userService) ListUsers(ctx context.Context) ([]ports.ContactView, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ports.ContactView, 0, len(users))
	for i := range users {
		views = append(views, *contactViewOf(&users[i]))
	}
	return views, nil
}

// Deactivate flips the active flag and revokes every outstanding refresh
// token. The row stays in the store; all lookups filter it out from here on.
func (s *userService) Deactivate(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Active = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.tokens.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("account deactivated")
	return nil
}
