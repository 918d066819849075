package service

import (
	"context"
	"fmt"

	"github.com/bharatgram/server/internal/core/domain"
	"github.com/bharatgram/server/internal/core/port"
	"github.com/rs/zerolog/log"
)

// ChatService relays messages between two users: persist first, then
// forward to the recipient's live connection if there is one.
type ChatService struct {
	messages port.MessageRepository
	chats    port.ChatRepository
	registry *Registry
}

func NewChatService(messages port.MessageRepository, chats port.ChatRepository, registry *Registry) *ChatService {
	return &ChatService{
		messages: messages,
		chats:    chats,
		registry: registry,
	}
}

// SendMessage persists and relays one message. The persisted message is
// returned to the caller whether or not the recipient was online, so the
// sender can render it with server-assigned id and timestamp.
//
// Persistence strictly precedes delivery: a message a live recipient saw
// is always recoverable from a later history fetch. A summary-update
// failure after the message is stored does not undo the send.
func (s *ChatService) SendMessage(ctx context.Context, chatID domain.ChatID, from, to domain.UserID, text string) (*domain.Message, error) {
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	msg, err := s.messages.Create(ctx, chatID, from, text)
	if err != nil {
		log.Error().Err(err).
			Str("chat_id", chatID.String()).
			Str("sender_id", from.String()).
			Msg("Message persistence failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	if err := s.chats.Touch(ctx, chatID, msg.Text); err != nil {
		// The message itself is durable; only the summary projection is
		// stale. Logged, never surfaced.
		log.Error().Err(err).
			Str("chat_id", chatID.String()).
			Msg("Chat summary update failed")
	}

	if client, ok := s.registry.Lookup(to); ok {
		if err := client.Send(domain.Event{
			Name: domain.EventReceiveMessage,
			Payload: domain.ReceiveMessagePayload{
				ChatID:    msg.ChatID.String(),
				SenderID:  msg.SenderID.String(),
				Text:      msg.Text,
				MessageID: msg.ID.String(),
				CreatedAt: msg.CreatedAt,
			},
		}); err != nil {
			log.Warn().Err(err).
				Str("client_id", client.ID()).
				Str("message_id", msg.ID.String()).
				Msg("Live delivery failed")
		}
	}

	return msg, nil
}
