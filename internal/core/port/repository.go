package port

import (
	"context"

	"github.com/bharatgram/server/internal/core/domain"
)

// MessageRepository owns the durability of messages. Create assigns the id
// and timestamp and must be safe for concurrent use.
type MessageRepository interface {
	Create(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, text string) (*domain.Message, error)
	ListByChat(ctx context.Context, chatID domain.ChatID, limit int) ([]domain.Message, error)
}

type ChatRepository interface {
	// Touch updates the chat's last-message summary and bumps UpdatedAt.
	Touch(ctx context.Context, chatID domain.ChatID, summary string) error
	// FindOrCreate returns the chat for the unordered pair {a, b},
	// creating it on first contact.
	FindOrCreate(ctx context.Context, a, b domain.UserID) (*domain.Chat, error)
	Get(ctx context.Context, chatID domain.ChatID) (*domain.Chat, error)
	ListByParticipant(ctx context.Context, userID domain.UserID) ([]domain.Chat, error)
}
