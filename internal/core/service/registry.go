package service

import (
	"sync"
	"time"

	"github.com/bharatgram/server/internal/core/domain"
	"github.com/bharatgram/server/internal/core/port"
	"github.com/samber/lo"
)

type session struct {
	client      port.Client
	connectedAt time.Time
}

// Registry is the authoritative user→connection table. At most one session
// exists per user id; a re-register replaces the previous handle (last
// register wins). All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.UserID]session),
	}
}

// Register binds userID to client, replacing any existing binding. It
// returns the superseded handle, if any. The superseded connection is not
// closed here; it stays open until its own read loop terminates.
func (r *Registry) Register(userID domain.UserID, client port.Client) (prev port.Client, replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sessions[userID]; ok {
		prev, replaced = old.client, true
	}
	r.sessions[userID] = session{client: client, connectedAt: time.Now()}
	return prev, replaced
}

func (r *Registry) Lookup(userID domain.UserID) (port.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	return s.client, true
}

// Unregister removes the entry currently bound to this exact handle and
// returns the user id it belonged to. A stale handle, already superseded
// by a newer registration for the same user, removes nothing.
func (r *Registry) Unregister(client port.Client) (domain.UserID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, s := range r.sessions {
		if s.client == client {
			delete(r.sessions, userID)
			return userID, true
		}
	}
	return "", false
}

// Clients snapshots every live connection, for broadcasts.
func (r *Registry) Clients() []port.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(lo.Values(r.sessions), func(s session, _ int) port.Client {
		return s.client
	})
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
