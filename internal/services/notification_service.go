package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/ledger"
	"studentwallet/internal/models"
)

// Alert types, matching the icons the notifications page picks.
const (
	AlertWarning = "warning"
	AlertInfo    = "info"
	AlertSuccess = "success"
)

// notificationService handles in-app notifications.
type notificationService struct {
	db      *gorm.DB
	budgets BudgetServicer
	goals   SavingsGoalServicer
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB, budgets BudgetServicer, goals SavingsGoalServicer) NotificationServicer {
	return &notificationService{db: db, budgets: budgets, goals: goals}
}

// List returns all of the user's notifications, newest first.
func (s *notificationService) List(userID string) ([]models.Notification, error) {
	return s.find(s.db.Where("user_id = ?", userID))
}

// ListUnread returns the user's unread notifications, newest first.
func (s *notificationService) ListUnread(userID string) ([]models.Notification, error) {
	return s.find(s.db.Where("user_id = ? AND is_read = ?", userID, false))
}

func (s *notificationService) find(q *gorm.DB) ([]models.Notification, error) {
	out := []models.Notification{}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return out, nil
}

// Create stores an unread notification.
func (s *notificationService) Create(userID, title string, message, notificationType *string) (*models.Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return n, nil
}

// MarkAsRead flags one notification as read.
func (s *notificationService) MarkAsRead(userID, id string) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead flags every unread notification of the user as read.
func (s *notificationService) MarkAllAsRead(userID string) error {
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Delete removes one notification.
func (s *notificationService) Delete(userID, id string) error {
	var n models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&n).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteAll removes every notification of the user.
func (s *notificationService) DeleteAll(userID string) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Alerts derives warnings from current budget and goal figures. Budgets at
// or over their limit come first, then budgets past 80%, then goals that are
// at least 80% funded but not yet complete.
func (s *notificationService) Alerts(userID string) ([]Alert, error) {
	budgets, err := s.budgets.List(userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.List(userID)
	if err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0)
	for _, b := range budgets {
		if a, ok := budgetAlert(b); ok {
			alerts = append(alerts, a)
		}
	}
	for _, g := range goals {
		if a, ok := goalAlert(g); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

func budgetAlert(b BudgetWithStatus) (Alert, bool) {
	name := b.Category.Info().Name
	switch {
	case b.Percentage >= 100:
		return Alert{
			ID:      "budget-over-" + b.ID,
			Type:    AlertWarning,
			Title:   "Vượt ngân sách " + name,
			Message: fmt.Sprintf("Bạn đã chi %s / %s", FormatVND(b.Spent), FormatVND(b.Limit)),
		}, true
	case b.Percentage >= 80:
		return Alert{
			ID:      "budget-warning-" + b.ID,
			Type:    AlertInfo,
			Title:   "Sắp vượt ngân sách " + name,
			Message: fmt.Sprintf("Đã sử dụng %.0f%% ngân sách", b.Percentage),
		}, true
	}
	return Alert{}, false
}

func goalAlert(g GoalWithProgress) (Alert, bool) {
	if g.TargetAmount <= 0 {
		return Alert{}, false
	}
	pct := float64(g.CurrentAmount) * 100 / float64(g.TargetAmount)
	if pct < 80 || pct >= 100 {
		return Alert{}, false
	}
	return Alert{
		ID:      "goal-" + g.ID,
		Type:    AlertSuccess,
		Title:   "Sắp đạt mục tiêu \"" + g.Name + "\"",
		Message: fmt.Sprintf("Chỉ còn %s nữa!", FormatVND(ledger.GoalProgress(g.SavingsGoal).Remaining)),
	}, true
}

// FormatVND renders an amount the way vi-VN formats currency, e.g. "35.000 ₫".
func FormatVND(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₫")
	return b.String()
}
