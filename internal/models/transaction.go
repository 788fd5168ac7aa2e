package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// OpeningBalanceNote marks income rows entered as the month's starting balance.
const OpeningBalanceNote = "Số dư tháng này"

// Transaction represents a single income or expense entry
type Transaction struct {
	Base
	UserID      string          `gorm:"size:64;not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    Category        `gorm:"not null" json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Note        *string         `json:"note,omitempty"`
}

// NoteText returns the note or an empty string.
func (t *Transaction) NoteText() string {
	if t.Note == nil {
		return ""
	}
	return *t.Note
}

// BeforeSave stores dates in UTC so SQLite's text timestamps compare as instants.
func (t *Transaction) BeforeSave(tx *gorm.DB) error {
	t.Date = t.Date.UTC()
	return nil
}
