package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

func TestContactService_Add(t *testing.T) {
	users := newStubUserRepo()
	svc := NewContactService(&stubContactRepo{}, users, zerolog.Nop())

	alice := seedUser(t, users, "alice@example.com", "@alice")
	bob := seedUser(t, users, "bob@example.com", "@bob")

	view, err := svc.Add(context.Background(), alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if view.ID != bob.ID || view.Username != "@bob" {
		t.Fatalf("unexpected view: %+v", view)
	}

	if _, err := svc.Add(context.Background(), alice.ID, bob.ID); !errors.Is(err, domain.ErrContactExists) {
		t.Fatalf("expected ErrContactExists, got %v", err)
	}
}

func TestContactService_Add_Validation(t *testing.T) {
	users := newStubUserRepo()
	svc := NewContactService(&stubContactRepo{}, users, zerolog.Nop())

	alice := seedUser(t, users, "alice@example.com", "@alice")

	if _, err := svc.Add(context.Background(), alice.ID, alice.ID); !errors.Is(err, domain.ErrSelfContact) {
		t.Fatalf("expected ErrSelfContact, got %v", err)
	}
	if _, err := svc.Add(context.Background(), alice.ID, ""); !errors.Is(err, domain.ErrSelfContact) {
		t.Fatalf("expected ErrSelfContact for empty id, got %v", err)
	}
	if _, err := svc.Add(context.Background(), alice.ID, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestContactService_List_DropsDeactivated(t *testing.T) {
	users := newStubUserRepo()
	svc := NewContactService(&stubContactRepo{}, users, zerolog.Nop())

	alice := seedUser(t, users, "alice@example.com", "@alice")
	bob := seedUser(t, users, "bob@example.com", "@bob")
	carol := seedUser(t, users, "carol@example.com", "@carol")

	if _, err := svc.Add(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("Add bob: %v", err)
	}
	if _, err := svc.Add(context.Background(), alice.ID, carol.ID); err != nil {
		t.Fatalf("Add carol: %v", err)
	}

	users.users[bob.ID].Active = false

	views, err := svc.List(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 || views[0].ID != carol.ID {
		t.Fatalf("expected only carol, got %+v", views)
	}
}
