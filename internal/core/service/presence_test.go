package service

import (
	"testing"

	"github.com/bharatgram/server/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestPresenceService_AnnounceReachesEveryConnection(t *testing.T) {
	registry := NewRegistry()
	presence := NewPresenceService(registry)

	clients := []*fakeClient{newFakeClient("c1"), newFakeClient("c2"), newFakeClient("c3")}
	registry.Register("alice", clients[0])
	registry.Register("bob", clients[1])
	registry.Register("carol", clients[2])

	presence.Announce("dave", domain.StatusOnline)

	for _, c := range clients {
		events := c.received(domain.EventUserStatusChange)
		require.Len(t, events, 1)
		payload := events[0].Payload.(domain.UserStatusChangePayload)
		require.Equal(t, "dave", payload.UserID)
		require.Equal(t, domain.StatusOnline, payload.Status)
	}
}

func TestPresenceService_OneFailedSendDoesNotBlockOthers(t *testing.T) {
	registry := NewRegistry()
	presence := NewPresenceService(registry)

	broken := newFakeClient("broken")
	broken.failSend = true
	healthy := newFakeClient("healthy")

	registry.Register("alice", broken)
	registry.Register("bob", healthy)

	presence.Announce("carol", domain.StatusOffline)

	require.Len(t, healthy.received(domain.EventUserStatusChange), 1)
}
