package platform

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"studentwallet/internal/events"
	"studentwallet/internal/logger"
)

// Webhook event names sent by the platform.
const (
	EventChallenge  = "challenge"
	EventUserRevoke = "user_revoke"
)

var errMissingData = errors.New("event has no data")

// WebhookEvent is the envelope of a platform webhook call.
type WebhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebhookReply is the body returned to the platform. The platform only
// checks code, so every reply is sent with status 200.
type WebhookReply struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// challengeData keeps the token raw so it is echoed whatever its JSON type.
type challengeData struct {
	Challenge json.RawMessage `json:"challenge,omitempty"`
}

type revokeData struct {
	UserID string `json:"user_id"`
}

// WebhookHandler receives platform webhook events.
type WebhookHandler struct {
	publisher events.Publisher
}

// NewWebhookHandler creates a webhook handler that forwards revokes to publisher.
func NewWebhookHandler(publisher events.Publisher) *WebhookHandler {
	return &WebhookHandler{publisher: publisher}
}

// Handle godoc
// @Summary      Platform webhook
// @Description  Answers verification challenges and queues user data deletion on revoke
// @Tags         webhook
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header    string        false  "Webhook API key"
// @Param        event      body      WebhookEvent  true   "Webhook event"
// @Success      200        {object}  WebhookReply
// @Router       /webhooks/zalo [post]
func (h *WebhookHandler) Handle(c *gin.Context) {
	log := logger.Named("webhook")

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Errorw("Failed to read webhook body", "error", err)
		c.JSON(http.StatusOK, WebhookReply{Code: -1, Message: "error"})
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Warnw("Invalid webhook payload", "error", err)
		c.JSON(http.StatusOK, WebhookReply{Code: -1, Message: "error"})
		return
	}

	switch event.Type {
	case EventChallenge:
		var data challengeData
		if err := decodeData(event.Data, &data); err != nil {
			log.Warnw("challenge event without data", "error", err)
			c.JSON(http.StatusOK, WebhookReply{Code: -1, Message: "error"})
			return
		}
		c.JSON(http.StatusOK, WebhookReply{
			Code:    0,
			Message: "success",
			Data:    challengeData{Challenge: data.Challenge},
		})

	case EventUserRevoke:
		var data revokeData
		if err := decodeData(event.Data, &data); err != nil {
			log.Warnw("user_revoke event without data", "error", err)
			c.JSON(http.StatusOK, WebhookReply{Code: -1, Message: "error"})
			return
		}
		log.Infow("User revoked access", "user_id", data.UserID)
		if data.UserID != "" {
			if err := h.publisher.PublishUserRevoked(c.Request.Context(), data.UserID); err != nil {
				log.Errorw("Failed to publish user revoke", "error", err, "user_id", data.UserID)
			}
		}
		c.JSON(http.StatusOK, WebhookReply{Code: 0, Message: "user revoke processed"})

	default:
		log.Debugw("Ignoring webhook event", "type", event.Type)
		c.JSON(http.StatusOK, WebhookReply{Code: 0, Message: "ok"})
	}
}

// decodeData fails when data is absent or null.
func decodeData(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errMissingData
	}
	return json.Unmarshal(raw, v)
}
