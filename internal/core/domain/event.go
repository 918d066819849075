package domain

import (
	"encoding/json"
	"time"
)

// EventName identifies one server→client event on the wire.
type EventName string

const (
	EventReceiveMessage   EventName = "receive_message"
	EventUserTyping       EventName = "user_typing"
	EventIncomingCall     EventName = "incoming_call"
	EventCallAccepted     EventName = "call_accepted"
	EventICECandidate     EventName = "ice_candidate"
	EventCallEnded        EventName = "call_ended"
	EventUserStatusChange EventName = "user_status_change"
)

// Event is one outbound unit handed to a connection. Payload must be
// JSON-marshallable; the transport adapter owns the envelope framing.
type Event struct {
	Name    EventName
	Payload any
}

type PresenceStatus string

const (
	StatusOnline  PresenceStatus = "online"
	StatusOffline PresenceStatus = "offline"
)

type ReceiveMessagePayload struct {
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	MessageID string    `json:"messageId"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserTypingPayload struct {
	ChatID   string `json:"chatId"`
	IsTyping bool   `json:"isTyping"`
}

// Offer, answer and candidate bodies are opaque to the engine; it relays
// whatever the peers produced.
type IncomingCallPayload struct {
	From  string          `json:"from"`
	Offer json.RawMessage `json:"offer"`
	Name  string          `json:"name"`
}

type CallAcceptedPayload struct {
	Answer json.RawMessage `json:"answer"`
}

type ICECandidatePayload struct {
	Candidate json.RawMessage `json:"candidate"`
}

type UserStatusChangePayload struct {
	UserID string         `json:"userId"`
	Status PresenceStatus `json:"status"`
}
