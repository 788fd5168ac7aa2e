package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"studentwallet/internal/ledger"
	"studentwallet/internal/models"
)

const (
	recentTransactionLimit = 5
	maxDailyDays           = 90
)

// statsService computes aggregates over the user's transactions.
type statsService struct {
	transactions TransactionServicer
	budgets      BudgetServicer
	goals        SavingsGoalServicer
	now          Clock
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(transactions TransactionServicer, budgets BudgetServicer, goals SavingsGoalServicer, clock Clock) StatsServicer {
	return &statsService{transactions: transactions, budgets: budgets, goals: goals, now: clock}
}

// Summary returns income, expense, balance and category spending for period.
func (s *statsService) Summary(userID string, period ledger.Period) (*Summary, error) {
	txs, err := s.transactions.ListAll(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	filtered := ledger.FilterByPeriod(txs, period, now)
	categories := ledger.CategoryExpenses(filtered, ledger.PeriodAll, now)
	return &Summary{
		Period:           period,
		TotalIncome:      ledger.TotalIncome(filtered, ledger.PeriodAll, now),
		TotalExpense:     ledger.TotalExpense(filtered, ledger.PeriodAll, now),
		Balance:          ledger.Balance(filtered, ledger.PeriodAll, now),
		CategoryExpenses: categories,
		TopCategories:    ledger.TopCategories(categories),
	}, nil
}

// Daily returns the expense series for the last days days, capped at 90.
func (s *statsService) Daily(userID string, days int) ([]ledger.DayTotal, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxDailyDays {
		days = maxDailyDays
	}
	txs, err := s.transactions.ListAll(userID)
	if err != nil {
		return nil, err
	}
	return ledger.DailyExpenses(txs, days, s.now()), nil
}

// Dashboard loads transactions, budgets and goals concurrently and builds
// the home page figures. The first failure cancels the rest.
func (s *statsService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	var (
		txs     []models.Transaction
		budgets []BudgetWithStatus
		goals   []GoalWithProgress
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListAll(userID)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		budgets, err = s.budgets.List(userID)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		goals, err = s.goals.List(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	recent := txs
	if len(recent) > recentTransactionLimit {
		recent = recent[:recentTransactionLimit]
	}
	return &Dashboard{
		Balance:            ledger.Balance(txs, ledger.PeriodAll, now),
		MonthIncome:        ledger.TotalIncome(txs, ledger.PeriodMonth, now),
		MonthExpense:       ledger.TotalExpense(txs, ledger.PeriodMonth, now),
		RecentTransactions: recent,
		Budgets:            budgets,
		Goals:              goals,
	}, nil
}
