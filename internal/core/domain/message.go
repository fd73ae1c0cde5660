package domain

import (
	"errors"
	"time"
)

var ErrRecipientNotFound = errors.New("recipient not found")
var ErrEmptyMessage = errors.New("recipient and message content are required")

// Message is a single direct message between two users.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	SentAt      time.Time `json:"sent_at"`
}
