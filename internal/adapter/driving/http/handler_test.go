package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bharatgram/server/internal/adapter/driven/persistence/sqlite"
	"github.com/bharatgram/server/internal/auth"
	"github.com/bharatgram/server/internal/core/domain"
	"github.com/bharatgram/server/internal/core/port"
	"github.com/bharatgram/server/internal/core/service"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler  *Handler
	server   *httptest.Server
	chats    port.ChatRepository
	messages port.MessageRepository
	chat     *service.ChatService
	verifier *auth.Verifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)

	messages := sqlite.NewMessageRepository(db)
	chats := sqlite.NewChatRepository(db)

	registry := service.NewRegistry()
	presence := service.NewPresenceService(registry)
	calls := service.NewCallService(registry)
	sessions := service.NewSessionService(registry, presence, calls)
	typing := service.NewTypingService(registry)
	chat := service.NewChatService(messages, chats, registry)

	verifier := auth.NewVerifier("test-secret", time.Hour)

	h := NewHandler(sessions, chat, typing, calls, chats, messages, verifier, 64)
	srv := httptest.NewServer(h.NewRouter())
	t.Cleanup(srv.Close)

	return &fixture{
		handler:  h,
		server:   srv,
		chats:    chats,
		messages: messages,
		chat:     chat,
		verifier: verifier,
	}
}

func (f *fixture) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.verifier.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (f *fixture) doJSON(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestREST_RequiresToken(t *testing.T) {
	f := newFixture(t)

	resp := f.doJSON(t, http.MethodGet, "/api/chats", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.doJSON(t, http.MethodGet, "/api/chats", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestREST_InitiateChatIsIdempotent(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "alice")

	resp := f.doJSON(t, http.MethodPost, "/api/chats/initiate", token, map[string]string{"recipientId": "bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first chatDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	require.Contains(t, first.Participants, "alice")
	require.Contains(t, first.Participants, "bob")

	resp = f.doJSON(t, http.MethodPost, "/api/chats/initiate", token, map[string]string{"recipientId": "bob"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second chatDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	require.Equal(t, first.ID, second.ID)
}

func TestREST_InitiateChatRejectsMissingRecipient(t *testing.T) {
	f := newFixture(t)
	token := f.tokenFor(t, "alice")

	resp := f.doJSON(t, http.MethodPost, "/api/chats/initiate", token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestREST_HistoryIncludesMessagesSentWhileOffline(t *testing.T) {
	f := newFixture(t)

	chat, err := f.chats.FindOrCreate(context.Background(), "alice", "bob")
	require.NoError(t, err)

	// Relay with nobody connected: persisted, pushed to no one.
	msg, err := f.chat.SendMessage(context.Background(), chat.ID, "alice", "bob", "Namaste")
	require.NoError(t, err)

	token := f.tokenFor(t, "bob")
	resp := f.doJSON(t, http.MethodGet, "/api/chats/"+chat.ID.String()+"/messages", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msgs []messageDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msgs))
	require.Len(t, msgs, 1)
	require.Equal(t, msg.ID.String(), msgs[0].ID)
	require.Equal(t, "Namaste", msgs[0].Text)
}

func TestREST_HistoryForbiddenToOutsiders(t *testing.T) {
	f := newFixture(t)

	chat, err := f.chats.FindOrCreate(context.Background(), "alice", "bob")
	require.NoError(t, err)

	token := f.tokenFor(t, "mallory")
	resp := f.doJSON(t, http.MethodGet, "/api/chats/"+chat.ID.String()+"/messages", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestREST_ListChatsScopedToParticipant(t *testing.T) {
	f := newFixture(t)

	_, err := f.chats.FindOrCreate(context.Background(), "alice", "bob")
	require.NoError(t, err)
	_, err = f.chats.FindOrCreate(context.Background(), "carol", "dave")
	require.NoError(t, err)

	token := f.tokenFor(t, "alice")
	resp := f.doJSON(t, http.MethodGet, "/api/chats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chats []chatDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chats))
	require.Len(t, chats, 1)
	require.Contains(t, chats[0].Participants, "alice")
}

func TestREST_HistoryUnknownChat(t *testing.T) {
	f := newFixture(t)

	token := f.tokenFor(t, "alice")
	resp := f.doJSON(t, http.MethodGet, "/api/chats/"+domain.NewChatID().String()+"/messages", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
