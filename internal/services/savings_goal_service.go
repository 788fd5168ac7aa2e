package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/ledger"
	"studentwallet/internal/models"
)

// savingsGoalService handles savings goals.
type savingsGoalService struct {
	db *gorm.DB
}

// NewSavingsGoalService creates a new SavingsGoalServicer.
func NewSavingsGoalService(db *gorm.DB) SavingsGoalServicer {
	return &savingsGoalService{db: db}
}

// Create adds a savings goal.
func (s *savingsGoalService) Create(userID string, in GoalInput) (*models.SavingsGoal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if in.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if in.CurrentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount must not be negative")
	}

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Deadline:      in.Deadline,
		Color:         in.Color,
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// List returns the user's goals, newest first, with progress attached.
func (s *savingsGoalService) List(userID string) ([]GoalWithProgress, error) {
	var goals []models.SavingsGoal
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]GoalWithProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalWithProgress{SavingsGoal: g, Progress: ledger.GoalProgress(g)})
	}
	return out, nil
}

// GetByID returns a goal if it belongs to the user.
func (s *savingsGoalService) GetByID(userID, id string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// Update applies a partial update to a goal.
func (s *savingsGoalService) Update(userID, id string, in GoalUpdate) (*models.SavingsGoal, error) {
	goal, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name must not be blank")
		}
		updates["name"] = name
	}
	if in.TargetAmount != nil {
		if *in.TargetAmount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		if *in.CurrentAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount must not be negative")
		}
		updates["current_amount"] = *in.CurrentAmount
	}
	if in.Deadline != nil {
		updates["deadline"] = *in.Deadline
	}
	if in.Color != nil {
		updates["color"] = *in.Color
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetByID(userID, id)
}

// AddToSavings reads the current amount, adds amount and writes the sum
// back. Two overlapping deposits can lose one of them.
func (s *savingsGoalService) AddToSavings(userID, id string, amount int64) (*models.SavingsGoal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	goal, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	newAmount := goal.CurrentAmount + amount
	if err := s.db.Model(goal).Update("current_amount", newAmount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	goal.CurrentAmount = newAmount
	return goal, nil
}

// Delete soft-deletes a goal.
func (s *savingsGoalService) Delete(userID, id string) error {
	goal, err := s.GetByID(userID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
