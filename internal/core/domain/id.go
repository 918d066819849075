package domain

import (
	"github.com/google/uuid"
)

// UserID is issued by the auth layer; the engine treats it as opaque.
type UserID string

func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return "", ErrEmptyUserID
	}
	return UserID(s), nil
}

func (id UserID) String() string {
	return string(id)
}

type ChatID uuid.UUID

func NewChatID() ChatID {
	return ChatID(uuid.New())
}

func ParseChatID(s string) (ChatID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ChatID{}, err
	}
	return ChatID(id), nil
}

func (id ChatID) String() string {
	return uuid.UUID(id).String()
}

type MessageID uuid.UUID

func NewMessageID() MessageID {
	return MessageID(uuid.New())
}

func ParseMessageID(s string) (MessageID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return MessageID{}, err
	}
	return MessageID(id), nil
}

func (id MessageID) String() string {
	return uuid.UUID(id).String()
}
