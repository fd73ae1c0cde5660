package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatwire/messaging-api/internal/core/domain"
	"github.com/chatwire/messaging-api/internal/core/ports"
)

const (
	maxNameLen     = 50
	maxPhotoURLLen = 255
	minUsernameLen = 4  // "@" plus at least 3 characters
	maxUsernameLen = 21 // "@" plus at most 20 characters
)

type profileService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	auth   *AuthService
	log    zerolog.Logger
}

// NewProfileService returns a ports.ProfileService. It leans on the auth
// service for token issuance so a patch that touches claim-bearing fields can
// hand back a fresh pair.
func NewProfileService(users ports.UserRepository, hasher ports.PasswordHasher, auth *AuthService, log zerolog.Logger) ports.ProfileService {
	return &profileService{users: users, hasher: hasher, auth: auth, log: log}
}

func (s *profileService) Get(ctx context.Context, userID string) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

// Patch applies a partial profile update. Email changes require the current
// password. When email, username, or a name changed, the stale claims in any
// outstanding access token no longer match, so a new token pair is returned;
// a photo-only change returns the updated profile instead.
func (s *profileService) Patch(ctx context.Context, userID string, in ports.PatchProfileInput) (*ports.PatchProfileResult, error) {
	if in.Email == nil && in.Username == nil && in.FirstName == nil && in.LastName == nil && in.PhotoURL == nil {
		return nil, domain.Validation("at least one field must be provided")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	claimsChanged := false

	if in.Email != nil {
		if in.Password == nil {
			return nil, domain.Validation("password is required to change email")
		}
		if !s.hasher.Verify(*in.Password, user.PasswordHash) {
			return nil, domain.ErrInvalidCredentials
		}
		if _, err := s.users.FindByEmail(ctx, *in.Email); err == nil {
			return nil, domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Email = *in.Email
		claimsChanged = true
	}

	if in.Username != nil {
		name := *in.Username
		if !strings.HasPrefix(name, "@") || len(name) < minUsernameLen || len(name) > maxUsernameLen {
			return nil, domain.Validation("username must start with @ and contain 3 to 20 characters")
		}
		if _, err := s.users.FindByUsername(ctx, name); err == nil {
			return nil, domain.ErrUsernameTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Username = name
		claimsChanged = true
	}

	if in.FirstName != nil {
		if len(*in.FirstName) > maxNameLen {
			return nil, domain.Validation("first name must not exceed 50 characters")
		}
		user.FirstName = *in.FirstName
		claimsChanged = true
	}

	if in.LastName != nil {
		if len(*in.LastName) > maxNameLen {
			return nil, domain.Validation("last name must not exceed 50 characters")
		}
		user.LastName = *in.LastName
		claimsChanged = true
	}

	if in.PhotoURL != nil {
		if len(*in.PhotoURL) > maxPhotoURLLen {
			return nil, domain.Validation("photo URL must not exceed 255 characters")
		}
		user.PhotoURL = *in.PhotoURL
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Bool("claims_changed", claimsChanged).Msg("profile updated")

	if claimsChanged {
		tokens, err := s.auth.issueTokens(ctx, user)
		if err != nil {
			return nil, err
		}
		return &ports.PatchProfileResult{Tokens: tokens}, nil
	}
	return &ports.PatchProfileResult{Profile: profileOf(user)}, nil
}

func profileOf(u *domain.User) *ports.Profile {
	return &ports.Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Birthdate: u.Birthdate,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		PhotoURL:  u.PhotoURL,
	}
}
