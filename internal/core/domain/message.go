package domain

import (
	"time"
)

// Message is append-only: created by the relay, never mutated or deleted.
type Message struct {
	ID        MessageID
	ChatID    ChatID
	SenderID  UserID
	Text      string
	CreatedAt time.Time
}

func NewMessage(chatID ChatID, senderID UserID, text string) (*Message, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}
	return &Message{
		ID:        NewMessageID(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}
