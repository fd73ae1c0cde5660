package ports

import (
	"context"
	"time"
)

// MessageView is a message enriched with both parties' usernames, ready for
// the wire.
type MessageView struct {
	ID                string    `json:"id"`
	SenderID          string    `json:"sender_id"`
	SenderUsername    string    `json:"sender_username"`
	RecipientID       string    `json:"recipient_id"`
	RecipientUsername string    `json:"recipient_username"`
	Content           string    `json:"content"`
	Timestamp         time.Time `json:"timestamp"`
}

// ListMessagesInput narrows a mailbox listing for the calling user.
type ListMessagesInput struct {
	UserID string
	PeerID string
	Since  time.Time
}

type MessageService interface {
	Send(ctx context.Context, senderID, recipientID, content string) (*MessageView, error)
	List(ctx context.Context, in ListMessagesInput) ([]MessageView, error)
}
