package services

import (
	"testing"
	"time"

	"studentwallet/internal/testutil"
)

func TestCreateGoal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSavingsGoalService(db)
		user := testutil.CreateTestUser(t, db)

		deadline := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
		goal, err := svc.Create(user.ID, GoalInput{
			Name:         "MacBook Pro",
			TargetAmount: 35000000,
			Deadline:     &deadline,
			Color:        "hsl(var(--accent-blue))",
		})
		testutil.AssertNoError(t, err)

		if goal.CurrentAmount != 0 {
			t.Errorf("expected current amount to default to 0, got %d", goal.CurrentAmount)
		}
		if goal.Deadline == nil || !goal.Deadline.Equal(deadline) {
			t.Errorf("expected deadline %v, got %v", deadline, goal.Deadline)
		}
	})

	t.Run("invalid_inputs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSavingsGoalService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Create(user.ID, GoalInput{Name: " ", TargetAmount: 100})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Create(user.ID, GoalInput{Name: "Laptop", TargetAmount: 0})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.Create(user.ID, GoalInput{Name: "Laptop", TargetAmount: 100, CurrentAmount: -1})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListGoals_WithProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSavingsGoalService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestGoal(t, db, user.ID, 1000, 250)
	testutil.CreateTestGoal(t, db, other.ID, 1000, 0)

	goals, err := svc.List(user.ID)
	testutil.AssertNoError(t, err)

	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
	if goals[0].Progress.Percentage != 25 {
		t.Errorf("expected 25%%, got %f", goals[0].Progress.Percentage)
	}
	if goals[0].Progress.Remaining != 750 {
		t.Errorf("expected 750 remaining, got %d", goals[0].Progress.Remaining)
	}
}

func TestAddToSavings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSavingsGoalService(db)
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID, 3000000, 1200000)

	updated, err := svc.AddToSavings(user.ID, goal.ID, 300000)
	testutil.AssertNoError(t, err)
	if updated.CurrentAmount != 1500000 {
		t.Errorf("expected 1500000, got %d", updated.CurrentAmount)
	}

	stored, err := svc.GetByID(user.ID, goal.ID)
	testutil.AssertNoError(t, err)
	if stored.CurrentAmount != 1500000 {
		t.Errorf("expected stored 1500000, got %d", stored.CurrentAmount)
	}

	_, err = svc.AddToSavings(user.ID, goal.ID, 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.AddToSavings(user.ID, "missing", 100)
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}

func TestUpdateAndDeleteGoal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSavingsGoalService(db)
	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID, 1000, 0)

	updated, err := svc.Update(user.ID, goal.ID, GoalUpdate{Name: strPtr("Du lịch Đà Lạt"), TargetAmount: int64Ptr(3000000)})
	testutil.AssertNoError(t, err)
	if updated.Name != "Du lịch Đà Lạt" || updated.TargetAmount != 3000000 {
		t.Errorf("unexpected goal after update: %+v", updated)
	}

	_, err = svc.Update(user.ID, goal.ID, GoalUpdate{Name: strPtr("")})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	testutil.AssertNoError(t, svc.Delete(user.ID, goal.ID))
	_, err = svc.GetByID(user.ID, goal.ID)
	testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
}
