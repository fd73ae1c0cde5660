package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatwire/messaging-api/internal/core/domain"
	"github.com/chatwire/messaging-api/internal/core/ports"
)

type contactService struct {
	contacts ports.ContactRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

// NewContactService returns a ports.ContactService.
func NewContactService(contacts ports.ContactRepository, users ports.UserRepository, log zerolog.Logger) ports.ContactService {
	return &contactService{contacts: contacts, users: users, log: log}
}

func (s *contactService) Add(ctx context.Context, ownerID, contactID string) (*ports.ContactView, error) {
	if contactID == "" || contactID == ownerID {
		return nil, domain.ErrSelfContact
	}

	target, err := s.users.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	exists, err := s.contacts.Exists(ctx, ownerID, target.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrContactExists
	}

	if _, err := s.contacts.Create(ctx, &domain.Contact{
		OwnerID:   ownerID,
		ContactID: target.ID,
		AddedAt:   time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	return contactViewOf(target), nil
}

// List resolves the owner's contact list into directory entries. Entries whose
// user has since been deactivated are dropped from the result.
func (s *contactService) List(ctx context.Context, ownerID string) ([]ports.ContactView, error) {
	contacts, err := s.contacts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]ports.ContactView, 0, len(contacts))
	for _, c := range contacts {
		user, err := s.users.FindByID(ctx, c.ContactID)
		if err != nil {
			if err == domain.ErrUserNotFound {
				continue
			}
			return nil, err
		}
		views = append(views, *contactViewOf(user))
	}
	return views, nil
}

func contactViewOf(u *domain.User) *ports.ContactView {
	return &ports.ContactView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
	}
}
