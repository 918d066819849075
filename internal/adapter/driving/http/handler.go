package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bharatgram/server/internal/auth"
	"github.com/bharatgram/server/internal/core/domain"
	"github.com/bharatgram/server/internal/core/port"
	"github.com/bharatgram/server/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const historyLimit = 50

type Handler struct {
	Sessions *service.SessionService
	Chat     *service.ChatService
	Typing   *service.TypingService
	Calls    *service.CallService

	Chats    port.ChatRepository
	Messages port.MessageRepository

	Verifier *auth.Verifier

	// Outbound events queued per websocket connection.
	SendBufferSize int

	validate *validator.Validate
}

func NewHandler(
	sessions *service.SessionService,
	chat *service.ChatService,
	typing *service.TypingService,
	calls *service.CallService,
	chats port.ChatRepository,
	messages port.MessageRepository,
	verifier *auth.Verifier,
	sendBufferSize int,
) *Handler {
	return &Handler{
		Sessions:       sessions,
		Chat:           chat,
		Typing:         typing,
		Calls:          calls,
		Chats:          chats,
		Messages:       messages,
		Verifier:       verifier,
		SendBufferSize: sendBufferSize,
		validate:       validator.New(),
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/chats", h.ListChats)
		r.Get("/chats/{chatID}/messages", h.ListMessages)
		r.Post("/chats/initiate", h.InitiateChat)
	})

	return r
}

type chatDTO struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	LastMessage  string    `json:"lastMessage"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	chats, err := h.Chats.ListByParticipant(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Chat listing failed")
		respondError(w, http.StatusInternalServerError, "could not list chats")
		return
	}

	dtos := make([]chatDTO, 0, len(chats))
	for _, chat := range chats {
		dtos = append(dtos, toChatDTO(chat))
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	chatID, err := domain.ParseChatID(chi.URLParam(r, "chatID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid chat id")
		return
	}

	chat, err := h.Chats.Get(r.Context(), chatID)
	if errors.Is(err, domain.ErrChatNotFound) {
		respondError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load chat")
		return
	}
	if !chat.HasParticipant(userID) {
		respondError(w, http.StatusForbidden, "not a participant of this chat")
		return
	}

	msgs, err := h.Messages.ListByChat(r.Context(), chatID, historyLimit)
	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID.String()).Msg("History read failed")
		respondError(w, http.StatusInternalServerError, "could not load messages")
		return
	}

	dtos := make([]messageDTO, 0, len(msgs))
	for _, msg := range msgs {
		dtos = append(dtos, messageDTO{
			ID:        msg.ID.String(),
			ChatID:    msg.ChatID.String(),
			SenderID:  msg.SenderID.String(),
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, dtos)
}

type initiateChatRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
}

func (h *Handler) InitiateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req initiateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "recipientId is required")
		return
	}

	chat, err := h.Chats.FindOrCreate(r.Context(), userID, domain.UserID(req.RecipientID))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Chat initiation failed")
		respondError(w, http.StatusInternalServerError, "could not initiate chat")
		return
	}
	respondJSON(w, http.StatusOK, toChatDTO(*chat))
}

func toChatDTO(chat domain.Chat) chatDTO {
	return chatDTO{
		ID:           chat.ID.String(),
		Participants: []string{chat.Participants[0].String(), chat.Participants[1].String()},
		LastMessage:  chat.LastMessage,
		UpdatedAt:    chat.UpdatedAt,
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Response encoding failed")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
