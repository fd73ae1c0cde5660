package domain

import (
	"errors"
	"strings"
	"time"
)

// RoleUser is the default role granted on registration. Roles is stored as a
// comma-joined string so the claim set can carry the full role list.
const RoleUser = "User"

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrUsernameTaken = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrMissingFields = errors.New("missing required fields")
var ErrTooManyAttempts = errors.New("too many login attempts")

// User is an account in the credential store. Accounts are never hard-deleted:
// Active=false hides the user from every lookup.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        string    `json:"-"`
	Birthdate    string    `json:"birthdate,omitempty"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Active       bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleList splits the comma-joined Roles field into the list carried by the
// access-token groups claim.
func (u *User) RoleList() []string {
	if u.Roles == "" {
		return nil
	}
	parts := strings.Split(u.Roles, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if r := strings.TrimSpace(p); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}
