package database

import (
	"fmt"
	"time"

	"studentwallet/internal/models"

	"gorm.io/gorm"
)

// Mock user served in development mode.
const (
	DevUserID    = "dev-user-123"
	DevUserName  = "Viu Sinh Viên"
	DevUserEmail = "dev@example.com"
)

// DevUser returns the mock user record.
func DevUser() models.User {
	return models.User{
		ID:     DevUserID,
		Name:   DevUserName,
		Email:  DevUserEmail,
		Avatar: "https://i.pravatar.cc/150?img=1",
		IsDev:  true,
	}
}

// Seed inserts the mock user with sample transactions, budgets and goals.
// Transaction dates are relative to now so the week and month views are
// populated. Seeding twice is a no-op.
func Seed(db *gorm.DB, now time.Time) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", DevUserID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	day := 24 * time.Hour
	transactions := []models.Transaction{
		{Type: models.TransactionTypeExpense, Amount: 35000, Category: models.CategoryFood, Description: "Cơm trưa", Date: now},
		{Type: models.TransactionTypeExpense, Amount: 150000, Category: models.CategoryEducation, Description: "Sách giáo trình", Date: now.Add(-day)},
		{Type: models.TransactionTypeExpense, Amount: 50000, Category: models.CategoryTransport, Description: "Xăng xe", Date: now.Add(-2 * day)},
		{Type: models.TransactionTypeIncome, Amount: 2000000, Category: models.CategoryIncome, Description: "Lương part-time", Date: now.Add(-3 * day)},
		{Type: models.TransactionTypeExpense, Amount: 120000, Category: models.CategoryEntertainment, Description: "Xem phim", Date: now.Add(-4 * day)},
		{Type: models.TransactionTypeExpense, Amount: 80000, Category: models.CategoryFood, Description: "Cafe với bạn", Date: now.Add(-5 * day)},
	}
	budgets := []models.Budget{
		{Category: models.CategoryFood, Limit: 2000000, Period: models.BudgetPeriodMonthly},
		{Category: models.CategoryEntertainment, Limit: 500000, Period: models.BudgetPeriodMonthly},
		{Category: models.CategoryTransport, Limit: 300000, Period: models.BudgetPeriodWeekly},
	}
	deadline := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	goals := []models.SavingsGoal{
		{Name: "MacBook Pro", TargetAmount: 35000000, CurrentAmount: 8500000, Color: "hsl(var(--accent-blue))"},
		{Name: "Du lịch Đà Lạt", TargetAmount: 3000000, CurrentAmount: 1200000, Deadline: &deadline, Color: "hsl(var(--accent-purple))"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := DevUser()
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		for i := range transactions {
			transactions[i].UserID = DevUserID
		}
		if err := tx.Create(&transactions).Error; err != nil {
			return fmt.Errorf("failed to seed transactions: %w", err)
		}
		for i := range budgets {
			budgets[i].UserID = DevUserID
		}
		if err := tx.Create(&budgets).Error; err != nil {
			return fmt.Errorf("failed to seed budgets: %w", err)
		}
		for i := range goals {
			goals[i].UserID = DevUserID
		}
		if err := tx.Create(&goals).Error; err != nil {
			return fmt.Errorf("failed to seed goals: %w", err)
		}
		return nil
	})
}
