package domain

import (
	"time"
)

// Chat is a two-party conversation. Participants are fixed at creation.
type Chat struct {
	ID           ChatID
	Participants [2]UserID
	LastMessage  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewChat(a, b UserID) *Chat {
	now := time.Now().UTC()
	return &Chat{
		ID:           NewChatID(),
		Participants: [2]UserID{a, b},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c *Chat) HasParticipant(userID UserID) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}
