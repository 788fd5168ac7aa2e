package events

import (
	"context"
	"fmt"
)

// Handler processes one revoke message.
type Handler func(ctx context.Context, msg *UserRevokedMessage) error

// Publisher hands revoke events to whoever purges user data.
type Publisher interface {
	PublishUserRevoked(ctx context.Context, userID string) error
}

// DirectPublisher runs the handler in-process. It is used when no broker is
// configured, so a revoke is processed before the webhook replies.
type DirectPublisher struct {
	handler Handler
}

// NewDirectPublisher creates a DirectPublisher that calls handler.
func NewDirectPublisher(handler Handler) *DirectPublisher {
	return &DirectPublisher{handler: handler}
}

// PublishUserRevoked calls the handler synchronously.
func (p *DirectPublisher) PublishUserRevoked(ctx context.Context, userID string) error {
	if err := p.handler(ctx, NewUserRevokedMessage(userID)); err != nil {
		return fmt.Errorf("handle user revoke: %w", err)
	}
	return nil
}
