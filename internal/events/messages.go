// Package events carries user lifecycle notifications from the platform
// webhook to the worker that acts on them.
package events

import (
	"encoding/json"
	"errors"
	"time"
)

// UserRevokedMessage announces that a user withdrew the mini-app's access
// on the chat platform. Consumers delete the user's data.
type UserRevokedMessage struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserRevokedMessage stamps a revoke message with the current time.
func NewUserRevokedMessage(userID string) *UserRevokedMessage {
	return &UserRevokedMessage{UserID: userID, Timestamp: time.Now().UTC()}
}

// ToJSON converts the message to JSON bytes
func (m *UserRevokedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// UserRevokedMessageFromJSON decodes a message and rejects ones without a user id.
func UserRevokedMessageFromJSON(data []byte) (*UserRevokedMessage, error) {
	var msg UserRevokedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, errors.New("user_revoked message has no user_id")
	}
	return &msg, nil
}
