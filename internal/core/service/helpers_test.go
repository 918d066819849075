package service

import (
	"context"
	"errors"
	"sync"

	"github.com/bharatgram/server/internal/core/domain"
)

// fakeClient records every event it is asked to deliver.
type fakeClient struct {
	id       string
	failSend bool

	mu     sync.Mutex
	events []domain.Event
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id}
}

func (c *fakeClient) ID() string { return c.id }

func (c *fakeClient) Send(evt domain.Event) error {
	if c.failSend {
		return errors.New("send failed")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

func (c *fakeClient) Close() error { return nil }

func (c *fakeClient) received(name domain.EventName) []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []domain.Event
	for _, evt := range c.events {
		if evt.Name == name {
			out = append(out, evt)
		}
	}
	return out
}

type fakeMessageRepo struct {
	createErr error

	mu      sync.Mutex
	created []domain.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, chatID domain.ChatID, senderID domain.UserID, text string) (*domain.Message, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	msg, err := domain.NewMessage(chatID, senderID, text)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, *msg)
	return msg, nil
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID domain.ChatID, _ int) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Message
	for _, msg := range r.created {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	touchErr error

	mu      sync.Mutex
	touched []domain.ChatID
}

func (r *fakeChatRepo) Touch(_ context.Context, chatID domain.ChatID, _ string) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touched = append(r.touched, chatID)
	return nil
}

func (r *fakeChatRepo) FindOrCreate(_ context.Context, a, b domain.UserID) (*domain.Chat, error) {
	return domain.NewChat(a, b), nil
}

func (r *fakeChatRepo) Get(_ context.Context, _ domain.ChatID) (*domain.Chat, error) {
	return nil, domain.ErrChatNotFound
}

func (r *fakeChatRepo) ListByParticipant(_ context.Context, _ domain.UserID) ([]domain.Chat, error) {
	return nil, nil
}
