package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/bharatgram/server/internal/core/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the web client origin is pinned
	CheckOrigin: func(r *http.Request) bool { return true },
}

var (
	errClientClosed     = errors.New("client connection closed")
	errClientBufferFull = errors.New("client send buffer full")
)

// envelope frames every event in both directions: {"event": ..., "data": ...}.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outboundEnvelope struct {
	Event domain.EventName `json:"event"`
	Data  any              `json:"data"`
}

// WSClient implements port.Client on a gorilla connection. One goroutine
// reads, one drains the send channel, so writes are serialized and events
// queued on a live connection go out in Send order.
type WSClient struct {
	id   string
	conn *websocket.Conn

	// Set by the register event; used as sender identity for signaling
	// events whose payload only names the counterparty.
	mu     sync.Mutex
	userID domain.UserID

	send chan domain.Event
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn, bufferSize int) *WSClient {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &WSClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan domain.Event, bufferSize),
		done: make(chan struct{}),
	}
}

func (c *WSClient) ID() string {
	return c.id
}

// Send queues the event without blocking. A full buffer means this
// connection is not keeping up; the event is dropped, matching the
// engine's best-effort forwarding.
func (c *WSClient) Send(evt domain.Event) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- evt:
		return nil
	default:
		return errClientBufferFull
	}
}

func (c *WSClient) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *WSClient) setUserID(userID domain.UserID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
}

func (c *WSClient) getUserID() domain.UserID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *WSClient) writePump() {
	for {
		select {
		case <-c.done:
			return
		case evt := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(outboundEnvelope{Event: evt.Name, Data: evt.Payload}); err != nil {
				log.Debug().Err(err).Str("client_id", c.id).Msg("Write failed, closing connection")
				c.Close()
				return
			}
		}
	}
}

// ServeWS upgrades the connection and runs its read loop. Identity arrives
// with the register event; the engine trusts the id it is given, the auth
// layer having already vetted the client.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := newWSClient(conn, h.SendBufferSize)

	l := log.With().Str("client_id", client.ID()).Logger()
	l.Info().Msg("New client connected")

	go client.writePump()

	defer func() {
		l.Info().Msg("Client disconnected")
		h.Sessions.Disconnect(client)
		client.Close()
	}()

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}
		h.dispatch(r.Context(), client, env, l)
	}
}

type registerPayload struct {
	UserID string `json:"userId" validate:"required"`
}

type sendMessagePayload struct {
	ChatID      string `json:"chatId" validate:"required,uuid"`
	RecipientID string `json:"recipientId" validate:"required"`
	SenderID    string `json:"senderId" validate:"required"`
	Text        string `json:"text"`
}

type typingPayload struct {
	ChatID      string `json:"chatId" validate:"required,uuid"`
	RecipientID string `json:"recipientId" validate:"required"`
}

type callUserPayload struct {
	To    string          `json:"to" validate:"required"`
	From  string          `json:"from" validate:"required"`
	Name  string          `json:"name"`
	Offer json.RawMessage `json:"offer" validate:"required"`
}

type answerCallPayload struct {
	To     string          `json:"to" validate:"required"`
	Answer json.RawMessage `json:"answer" validate:"required"`
}

type iceCandidatePayload struct {
	To        string          `json:"to" validate:"required"`
	Candidate json.RawMessage `json:"candidate" validate:"required"`
}

type endCallPayload struct {
	To string `json:"to" validate:"required"`
}

// dispatch decodes one inbound event and routes it to the owning
// component. Malformed payloads are dropped per connection; a bad event
// from one client never disturbs another's state.
func (h *Handler) dispatch(ctx context.Context, client *WSClient, env envelope, l zerolog.Logger) {
	switch env.Event {
	case "register":
		var p registerPayload
		if !h.decode(env.Data, &p, l, env.Event) {
			return
		}
		userID, err := domain.ParseUserID(p.UserID)
		if err != nil {
			l.Warn().Err(err).Msg("Register rejected")
			return
		}
		client.setUserID(userID)
		h.Sessions.Connect(userID, client)

	case "send_message":
		var p sendMessagePayload
		if !h.decode(env.Data, &p, l, env.Event) {
			return
		}
		chatID, err := domain.ParseChatID(p.ChatID)
		if err != nil {
			l.Warn().Err(err).Msg("Invalid chat id in send_message")
			return
		}
		if _, err := h.Chat.SendMessage(
			ctx,
			chatID,
			domain.UserID(p.SenderID),
			domain.UserID(p.RecipientID),
			p.Text,
		); err != nil {
			// Reported on the sending connection's log only; the
			// recipient never learns of a failed send.
			l.Error().Err(err).Str("chat_id", p.ChatID).Msg("Message relay failed")
		}

	case "typing_start", "typing_stop":
		var p typingPayload
		if !h.decode(env.Data, &p, l, env.Event) {
			return
		}
		chatID, err := domain.ParseChatID(p.ChatID)
		if err != nil {
			return
		}
		h.Typing.SetTyping(chatID, client.getUserID(), domain.UserID(p.RecipientID), env.Event == "typing_start")

	case "call_user":
		var p callUserPayload
		if !h.decode(env.Data, &p, l, env.Event) {
			return
		}
		h.Calls.CallUser(domain.UserID(p.From), domain.UserID(p.To), p.Name, p.Offer)

	case "answer_call":
		var p answerCallPayload
		if !h.decode(env.Data, &p, l, env.Event) {
			return
		}
		h.Calls.AnswerCall(client.getUserID(), domain.UserID(p.To), p.Answer)

	case "ice_candidate":
		var p iceCandidatePayload
		if !h.decode(env.Data, &p, l, env.Event) {
			return
		}
		h.Calls.ForwardCandidate(client.getUserID(), domain.UserID(p.To), p.Candidate)

	case "end_call":
		var p endCallPayload
		if !h.decode(env.Data, &p, l, env.Event) {
			return
		}
		h.Calls.EndCall(client.getUserID(), domain.UserID(p.To))

	default:
		l.Warn().Str("event", env.Event).Msg("Unknown event")
	}
}

func (h *Handler) decode(data json.RawMessage, dst any, l zerolog.Logger, event string) bool {
	if err := json.Unmarshal(data, dst); err != nil {
		l.Warn().Err(err).Str("event", event).Msg("Malformed payload")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		l.Warn().Err(err).Str("event", event).Msg("Invalid payload")
		return false
	}
	return true
}
