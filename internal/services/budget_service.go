package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/ledger"
	"studentwallet/internal/models"
)

// budgetService handles category spending limits.
type budgetService struct {
	db           *gorm.DB
	transactions TransactionServicer
	now          Clock
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, transactions TransactionServicer, clock Clock) BudgetServicer {
	return &budgetService{db: db, transactions: transactions, now: clock}
}

func validateBudget(category models.Category, limit int64, period models.BudgetPeriod) error {
	if !category.Valid() {
		return apperrors.ErrInvalidCategory
	}
	if limit <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than zero")
	}
	if !period.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be weekly or monthly")
	}
	return nil
}

// Create adds a budget; spent starts at zero.
func (s *budgetService) Create(userID string, category models.Category, limit int64, period models.BudgetPeriod) (*models.Budget, error) {
	if err := validateBudget(category, limit, period); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Limit:    limit,
		Period:   period,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// List returns the user's budgets with spent recomputed from transactions.
func (s *budgetService) List(userID string) ([]BudgetWithStatus, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	txs, err := s.transactions.ListAll(userID)
	if err != nil {
		return nil, err
	}

	return withStatus(budgets, txs, s.now()), nil
}

func withStatus(budgets []models.Budget, txs []models.Transaction, now time.Time) []BudgetWithStatus {
	out := make([]BudgetWithStatus, 0, len(budgets))
	for _, b := range budgets {
		st := ledger.BudgetStatus(b, txs, now)
		b.Spent = st.Spent
		out = append(out, BudgetWithStatus{Budget: b, Remaining: st.Remaining, Percentage: st.Percentage})
	}
	return out
}

// GetByID returns a budget if it belongs to the user.
func (s *budgetService) GetByID(userID, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetByCategory returns the user's first budget for a category.
func (s *budgetService) GetByCategory(userID string, category models.Category) (*models.Budget, error) {
	if !category.Valid() {
		return nil, apperrors.ErrInvalidCategory
	}
	var budget models.Budget
	err := s.db.Where("user_id = ? AND category = ?", userID, category).
		Order("created_at ASC").
		First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// Update applies a partial update to a budget.
func (s *budgetService) Update(userID, id string, in BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	category, limit, period := budget.Category, budget.Limit, budget.Period
	updates := make(map[string]interface{})
	if in.Category != nil {
		category = *in.Category
		updates["category"] = category
	}
	if in.Limit != nil {
		limit = *in.Limit
		updates["budget_limit"] = limit
	}
	if in.Period != nil {
		period = *in.Period
		updates["period"] = period
	}
	if err := validateBudget(category, limit, period); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetByID(userID, id)
}

// Delete soft-deletes a budget.
func (s *budgetService) Delete(userID, id string) error {
	budget, err := s.GetByID(userID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Status computes spent, remaining and percentage for the budget's current
// period. The stored spent column is not consulted.
func (s *budgetService) Status(userID, id string) (*ledger.Status, error) {
	budget, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.ListAll(userID)
	if err != nil {
		return nil, err
	}

	st := ledger.BudgetStatus(*budget, txs, s.now())
	return &st, nil
}
