package server

import (
	"context"

	"studentwallet/internal/events"
	"studentwallet/internal/logger"
	"studentwallet/internal/services"
)

// RevokeHandler purges a user's data when they revoke the mini-app.
func RevokeHandler(users services.UserServicer) events.Handler {
	return func(_ context.Context, msg *events.UserRevokedMessage) error {
		if err := users.Purge(msg.UserID); err != nil {
			return err
		}
		logger.Named("revoke").Infow("Purged user data", "user_id", msg.UserID)
		return nil
	}
}
