package testutil_test

import (
	"testing"

	"studentwallet/internal/errors"
	"studentwallet/internal/models"
	"studentwallet/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "transactions", "budgets", "savings_goals", "notifications", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	db1 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db1)
	db2 := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db2)

	testutil.CreateTestUser(t, db1)

	var count int64
	db2.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, got %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, models.CategoryIncome, 1000)
	if tx.ID == "" {
		t.Error("expected generated transaction ID")
	}
	if tx.Amount != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.Amount)
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, models.CategoryFood)
	if budget.Limit != 100000 {
		t.Errorf("expected budget limit 100000, got %d", budget.Limit)
	}

	goal := testutil.CreateTestGoal(t, db, user.ID, 5000, 1000)
	if goal.CurrentAmount != 1000 {
		t.Errorf("expected current amount 1000, got %d", goal.CurrentAmount)
	}
}

func TestAssertions(t *testing.T) {
	testutil.AssertNoError(t, nil)
	testutil.AssertAppError(t, errors.ErrGoalNotFound, "GOAL_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrInternalServer, nil), "INTERNAL_ERROR")
}
