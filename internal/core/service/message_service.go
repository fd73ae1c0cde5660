package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatwire/messaging-api/internal/core/domain"
	"github.com/chatwire/messaging-api/internal/core/ports"
)

type messageService struct {
	messages ports.MessageRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

// NewMessageService returns a ports.MessageService backed by the message and
// user repositories.
func NewMessageService(messages ports.MessageRepository, users ports.UserRepository, log zerolog.Logger) ports.MessageService {
	return &messageService{messages: messages, users: users, log: log}
}

func (s *messageService) Send(ctx context.Context, senderID, recipientID, content string) (*ports.MessageView, error) {
	if recipientID == "" || strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyMessage
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.users.FindByID(ctx, recipientID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrRecipientNotFound
		}
		return nil, err
	}

	msg, err := s.messages.Create(ctx, &domain.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Content:     content,
		SentAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("sender_id", sender.ID).Str("recipient_id", recipient.ID).Msg("message stored")

	return &ports.MessageView{
		ID:                msg.ID,
		SenderID:          sender.ID,
		SenderUsername:    sender.Username,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		Content:           msg.Content,
		Timestamp:         msg.SentAt,
	}, nil
}

// List returns the caller's mailbox, optionally narrowed to one conversation
// or to messages after a given instant. Usernames are resolved once per
// distinct participant.
func (s *messageService) List(ctx context.Context, in ports.ListMessagesInput) ([]ports.MessageView, error) {
	msgs, err := s.messages.ListForUser(ctx, ports.MessageFilter{
		UserID: in.UserID,
		PeerID: in.PeerID,
		Since:  in.Since,
	})
	if err != nil {
		return nil, err
	}

	usernames := make(map[string]string)
	views := make([]ports.MessageView, 0, len(msgs))
	for _, m := range msgs {
		senderName, err := s.username(ctx, usernames, m.SenderID)
		if err != nil {
			return nil, err
		}
		recipientName, err := s.username(ctx, usernames, m.RecipientID)
		if err != nil {
			return nil, err
		}
		views = append(views, ports.MessageView{
			ID:                m.ID,
			SenderID:          m.SenderID,
			SenderUsername:    senderName,
			RecipientID:       m.RecipientID,
			RecipientUsername: recipientName,
			Content:           m.Content,
			Timestamp:         m.SentAt,
		})
	}
	return views, nil
}

func (s *messageService) username(ctx context.Context, cache map[string]string, userID string) (string, error) {
	if name, ok := cache[userID]; ok {
		return name, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		// Deactivated participants still appear in history, just nameless.
		if err == domain.ErrUserNotFound {
			cache[userID] = ""
			return "", nil
		}
		return "", err
	}
	cache[userID] = user.Username
	return user.Username, nil
}
