package domain

import (
	"errors"
	"time"
)

var ErrContactExists = errors.New("user already in contact list")
var ErrSelfContact = errors.New("cannot add yourself to contacts")

// Contact links an owner to another user they have added to their list.
type Contact struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	ContactID string    `json:"contact_id"`
	AddedAt   time.Time `json:"added_at"`
}
