package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatwire/messaging-api/internal/core/domain"
	"github.com/chatwire/messaging-api/internal/core/ports"
)

// In-memory stand-ins for the Mongo repositories, mirroring their semantics:
// lookups skip inactive users, Consume deletes atomically, expired tokens
// never redeem.

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.seq++
	clone := copyUser(user)
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = clone
	return copyUser(clone), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok && u.Active {
		return copyUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListActive(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = copyUser(user)
	return nil
}

type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *stubTokenRepo) Store(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *stubTokenRepo) Consume(_ context.Context, tokenValue string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.tokens[tokenValue]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	delete(r.tokens, tokenValue)
	if record.Expired(time.Now().UTC()) {
		return nil, domain.ErrTokenInvalid
	}
	clone := *record
	return &clone, nil
}

func (r *stubTokenRepo) Delete(_ context.Context, tokenValue string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[tokenValue]; !ok {
		return false, nil
	}
	delete(r.tokens, tokenValue)
	return true, nil
}

func (r *stubTokenRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for value, record := range r.tokens {
		if record.UserID == userID {
			delete(r.tokens, value)
		}
	}
	return nil
}

func (r *stubTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type stubSigner struct {
	mu    sync.Mutex
	calls int
}

func (s *stubSigner) Sign(user *domain.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return fmt.Sprintf("signed.%s.%s.%d", user.ID, user.Email, s.calls), nil
}

func (s *stubSigner) PublicKeyPEM() []byte {
	return []byte("-----BEGIN PUBLIC KEY-----\nstub\n-----END PUBLIC KEY-----\n")
}

type stubThrottle struct {
	mu       sync.Mutex
	blocked  bool
	failures int
	resets   int
}

func (t *stubThrottle) Allow(_ context.Context, _ string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.blocked, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, _ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, _ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resets++
	return nil
}

type stubMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	seq      int
}

func (r *stubMessageRepo) Create(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *msg
	clone.ID = fmt.Sprintf("msg-%d", r.seq)
	r.messages = append(r.messages, clone)
	out := clone
	return &out, nil
}

func (r *stubMessageRepo) ListForUser(_ context.Context, filter ports.MessageFilter) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.SenderID != filter.UserID && m.RecipientID != filter.UserID {
			continue
		}
		if filter.PeerID != "" && m.SenderID != filter.PeerID && m.RecipientID != filter.PeerID {
			continue
		}
		if !filter.Since.IsZero() && !m.SentAt.After(filter.Since) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type stubContactRepo struct {
	mu       sync.Mutex
	contacts []domain.Contact
	seq      int
}

func (r *stubContactRepo) Create(_ context.Context, contact *domain.Contact) (*domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.OwnerID == contact.OwnerID && c.ContactID == contact.ContactID {
			return nil, domain.ErrContactExists
		}
	}
	r.seq++
	clone := *contact
	clone.ID = fmt.Sprintf("contact-%d", r.seq)
	r.contacts = append(r.contacts, clone)
	out := clone
	return &out, nil
}

func (r *stubContactRepo) Exists(_ context.Context, ownerID, contactID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.OwnerID == ownerID && c.ContactID == contactID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubContactRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Contact
	for _, c := range r.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

// testAuthService wires an AuthService over the in-memory stubs with a cheap
// bcrypt cost.
func testAuthService() (*AuthService, *stubUserRepo, *stubTokenRepo, *stubThrottle) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	throttle := &stubThrottle{}
	svc := NewAuthService(users, tokens, &stubSigner{}, NewBcryptHasher(4), throttle, time.Hour, zerolog.Nop())
	return svc, users, tokens, throttle
}

func registerTestUser(svc *AuthService, email string) (*ports.TokenPair, error) {
	return svc.Register(context.Background(), ports.RegisterInput{
		Email:     email,
		Password:  "s3cretpass",
		Birthdate: "1990-04-12",
		FirstName: "Test",
		LastName:  "User",
	})
}
