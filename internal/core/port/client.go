package port

import "github.com/bharatgram/server/internal/core/domain"

// Client is one live transport connection. Send must be safe to call from
// any goroutine and must not block on network I/O; events queued on one
// client are delivered in Send order while the connection stays open.
type Client interface {
	ID() string
	Send(evt domain.Event) error
	Close() error
}
