package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"studentwallet/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a platform user with a unique id.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	n := nextID()
	user := &models.User{
		ID:    fmt.Sprintf("zalo-%d", n),
		Name:  fmt.Sprintf("Sinh viên %d", n),
		Email: fmt.Sprintf("zalo-%d@zalo.vn", n),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction dated now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, category models.Category, amount int64) *models.Transaction {
	t.Helper()
	return CreateTestTransactionAt(t, db, userID, txType, category, amount, time.Now())
}

// CreateTestTransactionAt creates a transaction on the given date.
func CreateTestTransactionAt(t *testing.T, db *gorm.DB, userID string, txType models.TransactionType, category models.Category, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Category:    category,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly budget of 100,000 for the category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, category models.Category) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Limit:    100000,
		Period:   models.BudgetPeriodMonthly,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a savings goal with the given target and progress.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target, current int64) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
		Color:         "#3b82f6",
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestNotification creates an unread notification.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID: userID,
		Title:  fmt.Sprintf("Test Notification %d", nextID()),
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
