package service

import (
	"github.com/bharatgram/server/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// PresenceService announces online/offline transitions to every connected
// peer. It is intentionally an unscoped broadcast; the engine has no notion
// of who follows whom.
type PresenceService struct {
	registry *Registry
}

func NewPresenceService(registry *Registry) *PresenceService {
	return &PresenceService{registry: registry}
}

// Announce fans the status out best-effort. A failed send to one
// connection never prevents delivery to the rest.
func (s *PresenceService) Announce(userID domain.UserID, status domain.PresenceStatus) {
	evt := domain.Event{
		Name: domain.EventUserStatusChange,
		Payload: domain.UserStatusChangePayload{
			UserID: userID.String(),
			Status: status,
		},
	}

	for _, client := range s.registry.Clients() {
		if err := client.Send(evt); err != nil {
			log.Warn().Err(err).
				Str("client_id", client.ID()).
				Str("user_id", userID.String()).
				Msg("Presence delivery failed")
		}
	}
}
