package services

import (
	"context"
	"io"
	"time"

	"studentwallet/internal/ledger"
	"studentwallet/internal/models"
	"studentwallet/internal/pagination"
)

// Clock returns the reference time for period windows.
type Clock func() time.Time

// SystemClock returns the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// UserProfile is the identity data the chat platform vouches for.
type UserProfile struct {
	ID     string
	Name   string
	Email  string
	Avatar string
	IsDev  bool
}

// UserServicer defines the contract for platform user records.
type UserServicer interface {
	Upsert(profile UserProfile) (*models.User, error)
	GetByID(id string) (*models.User, error)
	Purge(id string) error
}

// TransactionInput carries the fields of a new transaction.
type TransactionInput struct {
	Type        models.TransactionType
	Amount      int64
	Category    models.Category
	Description string
	Date        time.Time
	Note        *string
}

// TransactionUpdate carries the fields to change; nil means unchanged.
type TransactionUpdate struct {
	Type        *models.TransactionType
	Amount      *int64
	Category    *models.Category
	Description *string
	Date        *time.Time
	Note        *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *models.Category
}

// TransactionServicer defines the contract for transaction records.
type TransactionServicer interface {
	Create(userID string, in TransactionInput) (*models.Transaction, error)
	List(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	ListAll(userID string) ([]models.Transaction, error)
	ListByDateRange(userID string, start, end time.Time) ([]models.Transaction, error)
	GetByID(userID, id string) (*models.Transaction, error)
	Update(userID, id string, in TransactionUpdate) (*models.Transaction, error)
	Delete(userID, id string) error
	Search(userID, query string) ([]models.Transaction, error)
	ListOpeningBalances(userID string) ([]models.Transaction, error)
	CreateOpeningBalance(userID string, amount int64, description string) (*models.Transaction, error)
}

// BudgetWithStatus is a budget with its spending recomputed for the
// current period.
type BudgetWithStatus struct {
	models.Budget
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetUpdate carries the fields to change; nil means unchanged.
type BudgetUpdate struct {
	Category *models.Category
	Limit    *int64
	Period   *models.BudgetPeriod
}

// BudgetServicer defines the contract for category budgets.
type BudgetServicer interface {
	Create(userID string, category models.Category, limit int64, period models.BudgetPeriod) (*models.Budget, error)
	List(userID string) ([]BudgetWithStatus, error)
	GetByID(userID, id string) (*models.Budget, error)
	GetByCategory(userID string, category models.Category) (*models.Budget, error)
	Update(userID, id string, in BudgetUpdate) (*models.Budget, error)
	Delete(userID, id string) error
	Status(userID, id string) (*ledger.Status, error)
}

// GoalInput carries the fields of a new savings goal.
type GoalInput struct {
	Name          string
	TargetAmount  int64
	CurrentAmount int64
	Deadline      *time.Time
	Color         string
}

// GoalUpdate carries the fields to change; nil means unchanged.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *int64
	CurrentAmount *int64
	Deadline      *time.Time
	Color         *string
}

// GoalWithProgress is a savings goal with its derived progress.
type GoalWithProgress struct {
	models.SavingsGoal
	Progress ledger.Progress `json:"progress"`
}

// SavingsGoalServicer defines the contract for savings goals.
type SavingsGoalServicer interface {
	Create(userID string, in GoalInput) (*models.SavingsGoal, error)
	List(userID string) ([]GoalWithProgress, error)
	GetByID(userID, id string) (*models.SavingsGoal, error)
	Update(userID, id string, in GoalUpdate) (*models.SavingsGoal, error)
	AddToSavings(userID, id string, amount int64) (*models.SavingsGoal, error)
	Delete(userID, id string) error
}

// Alert is a notification derived from budgets and goals on the fly.
type Alert struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NotificationServicer defines the contract for in-app notifications.
type NotificationServicer interface {
	List(userID string) ([]models.Notification, error)
	ListUnread(userID string) ([]models.Notification, error)
	Create(userID, title string, message, notificationType *string) (*models.Notification, error)
	MarkAsRead(userID, id string) error
	MarkAllAsRead(userID string) error
	Delete(userID, id string) error
	DeleteAll(userID string) error
	Alerts(userID string) ([]Alert, error)
}

// Summary contains the period totals shown on the statistics page.
type Summary struct {
	Period           ledger.Period             `json:"period"`
	TotalIncome      int64                     `json:"total_income"`
	TotalExpense     int64                     `json:"total_expense"`
	Balance          int64                     `json:"balance"`
	CategoryExpenses map[models.Category]int64 `json:"category_expenses"`
	TopCategories    []ledger.CategoryTotal    `json:"top_categories"`
}

// Dashboard contains everything the home page renders.
type Dashboard struct {
	Balance            int64                `json:"balance"`
	MonthIncome        int64                `json:"month_income"`
	MonthExpense       int64                `json:"month_expense"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	Budgets            []BudgetWithStatus   `json:"budgets"`
	Goals              []GoalWithProgress   `json:"goals"`
}

// StatsServicer defines the contract for aggregate statistics.
type StatsServicer interface {
	Summary(userID string, period ledger.Period) (*Summary, error)
	Daily(userID string, days int) ([]ledger.DayTotal, error)
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

// ExportServicer defines the contract for spreadsheet exports.
type ExportServicer interface {
	WriteTransactionsXLSX(w io.Writer, userID string, start, end time.Time) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
