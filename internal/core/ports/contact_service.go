package ports

import "context"

// ContactView is the directory entry returned for contacts and user listings.
type ContactView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

type ContactService interface {
	Add(ctx context.Context, ownerID, contactID string) (*ContactView, error)
	List(ctx context.Context, ownerID string) ([]ContactView, error)
}

// UserService exposes the account directory and deactivation.
type UserService interface {
	ListUsers(ctx context.Context) ([]ContactView, error)
	Deactivate(ctx context.Context, userID string) error
}
