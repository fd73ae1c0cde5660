package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatwire/messaging-api/internal/core/domain"
	"github.com/chatwire/messaging-api/internal/core/ports"
)

const (
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	// usernameAttempts caps the random-username retry loop. After that the
	// nanosecond fallback suffix guarantees termination under contention.
	usernameAttempts = 10
)

// AuthService orchestrates credential verification and the session-token
// lifecycle: login, registration, single-use refresh rotation, and logout.
type AuthService struct {
	users      ports.UserRepository
	tokens     ports.RefreshTokenRepository
	signer     ports.TokenSigner
	hasher     ports.PasswordHasher
	throttle   ports.LoginThrottle
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.RefreshTokenRepository,
	signer ports.TokenSigner,
	hasher ports.PasswordHasher,
	throttle ports.LoginThrottle,
	refreshTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTokenTTL
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		signer:     signer,
		hasher:     hasher,
		throttle:   throttle,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// Login verifies a credential and issues a fresh token pair. Unknown email
// and wrong password collapse into the same ErrInvalidCredentials so the
// response never reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	return s.issueTokens(ctx, user)
}

// Register creates an account and logs it straight in. The username is
// auto-generated and re-checked against the store; the unique index backs up
// the check under concurrent registration.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.TokenPair, error) {
	if in.Email == "" || in.Password == "" || in.Birthdate == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	username, err := s.generateUsername(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        domain.RoleUser,
		Birthdate:    in.Birthdate,
		Username:     username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return s.issueTokens(ctx, created)
}

// Refresh rotates a refresh token: the presented value is consumed atomically,
// then a brand-new pair is issued. A consumed value can never redeem again,
// even when two calls race on it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingFields
	}

	record, err := s.tokens.Consume(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		// Owner gone or deactivated: the session dies with the same error
		// shape as an unknown token.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token. An unknown or already-consumed value is a
// client error, not an idempotent success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domain.ErrMissingFields
	}

	deleted, err := s.tokens.Delete(ctx, refreshToken)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrTokenInvalid
	}
	return nil
}

// UpdateEmail changes the account's email after re-verifying the password.
// Refresh tokens are keyed by user id, so outstanding sessions carry over
// without any rewrite.
func (s *AuthService) UpdateEmail(ctx context.Context, userID, newEmail, password string) (*ports.TokenPair, error) {
	if newEmail == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, newEmail); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user.Email = newEmail
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// UpdateUsername changes the handle after a uniqueness re-check.
func (s *AuthService) UpdateUsername(ctx context.Context, userID, username string) (*ports.TokenPair, error) {
	if username == "" || !strings.HasPrefix(username, "@") {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user.Username = username
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// issueTokens signs an access token and persists a fresh single-use refresh
// token for the user.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	accessToken, err := s.signer.Sign(user)
	if err != nil {
		return nil, err
	}

	refresh := &domain.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}
	if err := s.tokens.Store(ctx, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &ports.TokenPair{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
	}, nil
}

// generateUsername picks a random "@User<digits>" handle, retrying a bounded
// number of times before falling back to a timestamp-derived suffix.
func (s *AuthService) generateUsername(ctx context.Context) (string, error) {
	for i := 0; i < usernameAttempts; i++ {
		candidate := fmt.Sprintf("@User%d", randomDigits())
		_, err := s.users.FindByUsername(ctx, candidate)
		if errors.Is(err, domain.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	// Contended namespace: nanoseconds keep the handle unique enough, and the
	// unique index rejects the residual collision.
	return fmt.Sprintf("@User%d", time.Now().UnixNano()%1_000_000_000), nil
}

func randomDigits() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint32(time.Now().UnixNano() % 1_000_000)
	}
	return binary.BigEndian.Uint32(b[:]) % 1_000_000
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}
