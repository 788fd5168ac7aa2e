package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/models"
	"studentwallet/internal/services"
)

// NotificationHandler handles in-app notification requests.
type NotificationHandler struct {
	notificationService services.NotificationServicer
	auditService        services.AuditServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer, auditService services.AuditServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, auditService: auditService}
}

// CreateNotificationRequest represents the request payload for creating a notification.
type CreateNotificationRequest struct {
	Title   string  `json:"title" binding:"required,min=1,max=200"`
	Message *string `json:"message" binding:"omitempty,max=1000"`
	Type    *string `json:"type" binding:"omitempty,max=50"`
}

// NotificationsResponse wraps a list of notifications.
type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

// AlertsResponse wraps derived budget and goal alerts.
type AlertsResponse struct {
	Alerts []services.Alert `json:"alerts"`
}

// GetNotifications lists all notifications, newest first.
// @Summary     List notifications
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} NotificationsResponse "Notifications"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	h.list(c, h.notificationService.List)
}

// GetUnreadNotifications lists unread notifications.
// @Summary     List unread notifications
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} NotificationsResponse "Unread notifications"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/unread [get]
func (h *NotificationHandler) GetUnreadNotifications(c *gin.Context) {
	h.list(c, h.notificationService.ListUnread)
}

func (h *NotificationHandler) list(c *gin.Context, fetch func(string) ([]models.Notification, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notifications, err := fetch(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, NotificationsResponse{Notifications: nonNil(notifications)})
}

// CreateNotification stores a notification for the user.
// @Summary     Create notification
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateNotificationRequest true "Notification"
// @Success     201 {object} map[string]models.Notification "Notification created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [post]
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	notification, err := h.notificationService.Create(userID, req.Title, req.Message, req.Type)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceNotification, notification.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}

// MarkAsRead marks one notification as read.
// @Summary     Mark notification as read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} MessageResponse "Marked as read"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/{id}/read [put]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.MarkAsRead(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}

// MarkAllAsRead marks every notification as read.
// @Summary     Mark all notifications as read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Marked as read"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/read-all [put]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.MarkAllAsRead(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "All notifications marked as read"})
}

// DeleteNotification deletes one notification.
// @Summary     Delete notification
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Notification ID"
// @Success     200 {object} MessageResponse "Notification deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.Delete(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceNotification, id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Notification deleted successfully"})
}

// DeleteAllNotifications clears the user's notifications.
// @Summary     Delete all notifications
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Notifications deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications [delete]
func (h *NotificationHandler) DeleteAllNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.DeleteAll(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceNotification, "", c.ClientIP(),
		map[string]interface{}{"all": true})

	c.JSON(http.StatusOK, MessageResponse{Message: "All notifications deleted"})
}

// GetAlerts returns alerts derived from budgets and goals.
// @Summary     Budget and goal alerts
// @Description Warnings for budgets near or over their limit and goals close to completion
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} AlertsResponse "Alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /notifications/alerts [get]
func (h *NotificationHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.notificationService.Alerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AlertsResponse{Alerts: nonNil(alerts)})
}
