package models

// BudgetPeriod represents the recurring window a budget limit applies to
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
)

// Valid reports whether p is weekly or monthly.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodWeekly || p == BudgetPeriodMonthly
}

// Budget represents a spending limit for a category.
//
// Spent is denormalized: it is recomputed from transactions whenever budgets
// are read and is never kept in sync on writes.
type Budget struct {
	Base
	UserID   string       `gorm:"size:64;not null;index" json:"user_id"`
	Category Category     `gorm:"not null" json:"category"`
	Limit    int64        `gorm:"column:budget_limit;type:bigint;not null" json:"limit"`
	Period   BudgetPeriod `gorm:"not null" json:"period"`
	Spent    int64        `gorm:"type:bigint;not null;default:0" json:"spent"`
}
