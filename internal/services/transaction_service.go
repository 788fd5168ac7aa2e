package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/ledger"
	"studentwallet/internal/models"
	"studentwallet/internal/pagination"
)

// transactionService handles income and expense records.
type transactionService struct {
	db  *gorm.DB
	now Clock
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, clock Clock) TransactionServicer {
	return &transactionService{db: db, now: clock}
}

func validateTransaction(typ models.TransactionType, amount int64, category models.Category) error {
	if !typ.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if amount < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if !category.Valid() {
		return apperrors.ErrInvalidCategory
	}
	return nil
}

// Create records a new transaction. A zero date defaults to now.
func (s *transactionService) Create(userID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransaction(in.Type, in.Amount, in.Category); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.now()
	}

	tx := &models.Transaction{
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date.UTC(),
		Note:        in.Note,
	}
	if err := s.db.Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tx, nil
}

// List returns a page of the user's transactions, newest first.
func (s *transactionService) List(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var txs []models.Transaction
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(txs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	return q
}

// ListAll returns every transaction of the user ordered by date, newest first.
func (s *transactionService) ListAll(userID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&txs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// ListByDateRange returns transactions dated between start and end inclusive.
func (s *transactionService) ListByDateRange(userID string, start, end time.Time) ([]models.Transaction, error) {
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must not be before start date")
	}
	txs := []models.Transaction{}
	err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start.UTC(), end.UTC()).
		Order("date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// GetByID returns a transaction if it belongs to the user.
func (s *transactionService) GetByID(userID, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}

// Update applies a partial update. Concurrent updates are last-write-wins.
func (s *transactionService) Update(userID, id string, in TransactionUpdate) (*models.Transaction, error) {
	tx, err := s.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, apperrors.ErrInvalidTransactionType
		}
		updates["type"] = *in.Type
	}
	if in.Amount != nil {
		if *in.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *in.Amount
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, apperrors.ErrInvalidCategory
		}
		updates["category"] = *in.Category
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		updates["date"] = in.Date.UTC()
	}
	if in.Note != nil {
		updates["note"] = *in.Note
	}

	if len(updates) > 0 {
		if err := s.db.Model(tx).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetByID(userID, id)
}

// Delete soft-deletes a transaction.
func (s *transactionService) Delete(userID, id string) error {
	tx, err := s.GetByID(userID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(tx).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Search matches query against description and note, ignoring case. The
// match runs in memory so Vietnamese diacritics fold the same way on every
// database.
func (s *transactionService) Search(userID, query string) ([]models.Transaction, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Transaction{}, nil
	}
	txs, err := s.ListAll(userID)
	if err != nil {
		return nil, err
	}
	return ledger.Search(txs, query), nil
}

// ListOpeningBalances returns the income rows entered as monthly starting balances.
func (s *transactionService) ListOpeningBalances(userID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := s.db.Where("user_id = ? AND type = ? AND note = ?", userID, models.TransactionTypeIncome, models.OpeningBalanceNote).
		Order("date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txs, nil
}

// CreateOpeningBalance records this month's starting balance as income.
func (s *transactionService) CreateOpeningBalance(userID string, amount int64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	note := models.OpeningBalanceNote
	return s.Create(userID, TransactionInput{
		Type:        models.TransactionTypeIncome,
		Amount:      amount,
		Category:    models.CategoryIncome,
		Description: description,
		Date:        s.now(),
		Note:        &note,
	})
}
