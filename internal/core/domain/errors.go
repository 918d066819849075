package domain

import "errors"

var (
	ErrEmptyMessage   = errors.New("message text cannot be empty")
	ErrEmptyUserID    = errors.New("user id cannot be empty")
	ErrChatNotFound   = errors.New("chat not found")
	ErrNotParticipant = errors.New("user is not a participant of this chat")

	// ErrPersistence wraps storage collaborator failures so callers can
	// distinguish them from validation errors.
	ErrPersistence = errors.New("persistence failure")
)
