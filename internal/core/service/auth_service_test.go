package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/chatwire/messaging-api/internal/core/domain"
	"github.com/chatwire/messaging-api/internal/core/ports"
)

func TestAuthService_Register_Success(t *testing.T) {
	svc, users, tokens, _ := testAuthService()

	pair, err := registerTestUser(svc, "alice@example.com")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if !strings.HasPrefix(pair.Username, "@User") {
		t.Fatalf("expected generated @User handle, got %q", pair.Username)
	}

	stored, err := users.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.PasswordHash == "s3cretpass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Roles != domain.RoleUser {
		t.Fatalf("unexpected roles: %q", stored.Roles)
	}
	if !stored.Active {
		t.Fatalf("expected new user to be active")
	}
	if tokens.count() != 1 {
		t.Fatalf("expected one stored refresh token, got %d", tokens.count())
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := testAuthService()

	if _, err := registerTestUser(svc, "bob@example.com"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := registerTestUser(svc, "bob@example.com"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc, _, _, _ := testAuthService()

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "x@example.com", Password: "pass"})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for missing birthdate, got %v", err)
	}
}

func TestAuthService_Register_UniqueUsernames(t *testing.T) {
	svc, _, _, _ := testAuthService()

	emails := []string{"u1@example.com", "u2@example.com", "u3@example.com", "u4@example.com", "u5@example.com"}
	seen := make(map[string]bool)
	for _, email := range emails {
		pair, err := registerTestUser(svc, email)
		if err != nil {
			t.Fatalf("register %s failed: %v", email, err)
		}
		if seen[pair.Username] {
			t.Fatalf("duplicate generated username %q", pair.Username)
		}
		seen[pair.Username] = true
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _, throttle := testAuthService()

	if _, err := registerTestUser(svc, "carol@example.com"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pair, err := svc.Login(context.Background(), "carol@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.Email != "carol@example.com" {
		t.Fatalf("unexpected email in pair: %q", pair.Email)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if throttle.resets == 0 {
		t.Fatalf("expected throttle reset after successful login")
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAuthService_Login_NoAccountEnumeration(t *testing.T) {
	svc, _, _, throttle := testAuthService()

	if _, err := registerTestUser(svc, "dave@example.com"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "badpass")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPass, unknown)
	}
	if throttle.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", throttle.failures)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	svc, _, _, throttle := testAuthService()
	throttle.blocked = true

	if _, err := registerTestUser(svc, "erin@example.com"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "erin@example.com", "s3cretpass"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Refresh_RotatesSingleUse(t *testing.T) {
	svc, _, _, _ := testAuthService()

	pair, err := registerTestUser(svc, "frank@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("expected a new refresh token value")
	}

	// The consumed value must never redeem again.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on replay, got %v", err)
	}

	// The rotated value still works.
	if _, err := svc.Refresh(context.Background(), next.RefreshToken); err != nil {
		t.Fatalf("rotated token failed to refresh: %v", err)
	}
}

func TestAuthService_Refresh_ConcurrentSingleWinner(t *testing.T) {
	svc, _, _, _ := testAuthService()

	pair, err := registerTestUser(svc, "grace@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrTokenInvalid):
			rejected++
		default:
			t.Fatalf("unexpected refresh error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winner, got %d (rejected %d)", succeeded, rejected)
	}
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	svc, _, tokens, _ := testAuthService()

	pair, err := registerTestUser(svc, "heidi@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	expired := &domain.RefreshToken{
		Token:     "expired-value",
		UserID:    pair.UserID,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := tokens.Store(context.Background(), expired); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	_, errExpired := svc.Refresh(context.Background(), "expired-value")
	_, errUnknown := svc.Refresh(context.Background(), "never-existed")
	if !errors.Is(errExpired, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", errExpired)
	}
	if errExpired.Error() != errUnknown.Error() {
		t.Fatalf("expired and unknown tokens must be indistinguishable: %q vs %q", errExpired, errUnknown)
	}
}

func TestAuthService_Refresh_DeactivatedOwner(t *testing.T) {
	svc, users, _, _ := testAuthService()

	pair, err := registerTestUser(svc, "ivan@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	users.users[pair.UserID].Active = false

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for deactivated owner, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _, _ := testAuthService()

	pair, err := registerTestUser(svc, "judy@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected revoked token to be dead, got %v", err)
	}
	if err := svc.Logout(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on double logout, got %v", err)
	}
}

func TestAuthService_UpdateEmail(t *testing.T) {
	svc, _, _, _ := testAuthService()

	pair, err := registerTestUser(svc, "kate@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateEmail(context.Background(), pair.UserID, "kate.new@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("update email failed: %v", err)
	}
	if updated.Email != "kate.new@example.com" {
		t.Fatalf("unexpected email: %q", updated.Email)
	}

	// Refresh tokens are keyed by the immutable user id, so the pre-change
	// token must survive the email change.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("pre-change refresh token died with the email change: %v", err)
	}
}

func TestAuthService_UpdateEmail_WrongPassword(t *testing.T) {
	svc, _, _, _ := testAuthService()

	pair, err := registerTestUser(svc, "leo@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.UpdateEmail(context.Background(), pair.UserID, "leo.new@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_UpdateEmail_Taken(t *testing.T) {
	svc, _, _, _ := testAuthService()

	if _, err := registerTestUser(svc, "mallory@example.com"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	pair, err := registerTestUser(svc, "nina@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.UpdateEmail(context.Background(), pair.UserID, "mallory@example.com", "s3cretpass"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_UpdateUsername(t *testing.T) {
	svc, _, _, _ := testAuthService()

	first, err := registerTestUser(svc, "oscar@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	second, err := registerTestUser(svc, "peggy@example.com")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.UpdateUsername(context.Background(), first.UserID, "@oscar")
	if err != nil {
		t.Fatalf("update username failed: %v", err)
	}
	if updated.Username != "@oscar" {
		t.Fatalf("unexpected username: %q", updated.Username)
	}

	if _, err := svc.UpdateUsername(context.Background(), second.UserID, "@oscar"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.UpdateUsername(context.Background(), second.UserID, "no-at-prefix"); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for bad prefix, got %v", err)
	}
}
