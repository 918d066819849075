package service

import (
	"github.com/bharatgram/server/internal/core/domain"
)

// TypingService forwards ephemeral typing state. Events are never
// persisted and never retried; staleness has no cost.
type TypingService struct {
	registry *Registry
}

func NewTypingService(registry *Registry) *TypingService {
	return &TypingService{registry: registry}
}

// SetTyping forwards the indicator to the recipient if online, otherwise
// drops it silently.
func (s *TypingService) SetTyping(chatID domain.ChatID, from, to domain.UserID, isTyping bool) {
	client, ok := s.registry.Lookup(to)
	if !ok {
		return
	}

	_ = client.Send(domain.Event{
		Name: domain.EventUserTyping,
		Payload: domain.UserTypingPayload{
			ChatID:   chatID.String(),
			IsTyping: isTyping,
		},
	})
}
