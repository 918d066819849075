package service

import (
	"github.com/bharatgram/server/internal/core/domain"
	"github.com/bharatgram/server/internal/core/port"
	"github.com/rs/zerolog/log"
)

// SessionService ties registry mutations to their side effects: presence
// announcements and call teardown. Peers only ever see net presence
// changes; a re-register from the same user is invisible to them.
type SessionService struct {
	registry *Registry
	presence *PresenceService
	calls    *CallService
}

func NewSessionService(registry *Registry, presence *PresenceService, calls *CallService) *SessionService {
	return &SessionService{
		registry: registry,
		presence: presence,
		calls:    calls,
	}
}

// Connect binds the user to this connection. Only a user going from
// absent to present is announced; replacing an existing handle emits
// nothing (no offline/online flicker).
func (s *SessionService) Connect(userID domain.UserID, client port.Client) {
	prev, replaced := s.registry.Register(userID, client)
	if replaced {
		// The superseded handle is left open; its read loop ends on its
		// own and its stale unregister will be a no-op.
		log.Info().
			Str("user_id", userID.String()).
			Str("old_client_id", prev.ID()).
			Str("client_id", client.ID()).
			Msg("Session replaced")
		return
	}

	log.Info().Str("user_id", userID.String()).Str("client_id", client.ID()).Msg("User online")
	s.presence.Announce(userID, domain.StatusOnline)
}

// Disconnect removes the session bound to this exact handle, if it still
// is the current one, and synchronously tears down any call the user was
// part of before announcing offline.
func (s *SessionService) Disconnect(client port.Client) {
	userID, removed := s.registry.Unregister(client)
	if !removed {
		return
	}

	s.calls.HandleDisconnect(userID)

	log.Info().Str("user_id", userID.String()).Str("client_id", client.ID()).Msg("User offline")
	s.presence.Announce(userID, domain.StatusOffline)
}
