// Package ledger computes the aggregate figures shown by the mini-app:
// period totals, per-category spending, budget status, search and the daily
// expense series. Every function is pure; callers pass the reference time.
package ledger

import (
	"sort"
	"strings"
	"time"

	"studentwallet/internal/models"
)

// Period selects the window an aggregate is computed over.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod accepts week, month, all or an empty string (all).
func ParsePeriod(s string) (Period, bool) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodWeek:
		return PeriodWeek, true
	case PeriodMonth:
		return PeriodMonth, true
	case PeriodAll, "":
		return PeriodAll, true
	}
	return "", false
}

// ForBudget maps a budget's recurrence onto the aggregate window.
func ForBudget(p models.BudgetPeriod) Period {
	if p == models.BudgetPeriodWeekly {
		return PeriodWeek
	}
	return PeriodMonth
}

// Range is an inclusive time window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside r, both ends included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// RangeFor returns the window for period around now, in now's location.
// Weeks run Monday through Sunday. PeriodAll has no window.
func RangeFor(period Period, now time.Time) (Range, bool) {
	switch period {
	case PeriodWeek:
		start := StartOfDay(now)
		offset := (int(start.Weekday()) + 6) % 7
		start = start.AddDate(0, 0, -offset)
		return Range{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)}, true
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}, true
	}
	return Range{}, false
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FilterByPeriod keeps the transactions dated inside period's window.
func FilterByPeriod(txs []models.Transaction, period Period, now time.Time) []models.Transaction {
	r, ok := RangeFor(period, now)
	if !ok {
		return txs
	}
	return InRange(txs, r.Start, r.End)
}

// InRange keeps the transactions dated between start and end inclusive.
func InRange(txs []models.Transaction, start, end time.Time) []models.Transaction {
	r := Range{Start: start, End: end}
	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

func sumType(txs []models.Transaction, typ models.TransactionType) int64 {
	var total int64
	for _, t := range txs {
		if t.Type == typ {
			total += t.Amount
		}
	}
	return total
}

// TotalIncome sums income amounts within period.
func TotalIncome(txs []models.Transaction, period Period, now time.Time) int64 {
	return sumType(FilterByPeriod(txs, period, now), models.TransactionTypeIncome)
}

// TotalExpense sums expense amounts within period.
func TotalExpense(txs []models.Transaction, period Period, now time.Time) int64 {
	return sumType(FilterByPeriod(txs, period, now), models.TransactionTypeExpense)
}

// Balance is income minus expense within period.
func Balance(txs []models.Transaction, period Period, now time.Time) int64 {
	filtered := FilterByPeriod(txs, period, now)
	return sumType(filtered, models.TransactionTypeIncome) - sumType(filtered, models.TransactionTypeExpense)
}

// CategoryExpenses totals expenses per category within period. Every known
// category is present in the result.
func CategoryExpenses(txs []models.Transaction, period Period, now time.Time) map[models.Category]int64 {
	out := make(map[models.Category]int64, len(models.AllCategories()))
	for _, c := range models.AllCategories() {
		out[c] = 0
	}
	for _, t := range FilterByPeriod(txs, period, now) {
		if t.Type == models.TransactionTypeExpense {
			out[t.Category] += t.Amount
		}
	}
	return out
}

// CategoryTotal is one row of a sorted category breakdown.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Amount   int64           `json:"amount"`
}

// TopCategories returns the non-zero categories of expenses ordered by
// amount, largest first, for the statistics pie chart.
func TopCategories(expenses map[models.Category]int64) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(expenses))
	for c, amount := range expenses {
		if amount <= 0 {
			continue
		}
		info := c.Info()
		out = append(out, CategoryTotal{Category: c, Name: info.Name, Color: info.Color, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Status is the spending position of one budget.
type Status struct {
	Spent      int64   `json:"spent"`
	Remaining  int64   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetStatus computes spent, remaining and percentage for budget using the
// expenses of its category in its current period.
func BudgetStatus(budget models.Budget, txs []models.Transaction, now time.Time) Status {
	spent := CategoryExpenses(txs, ForBudget(budget.Period), now)[budget.Category]
	return StatusOf(spent, budget.Limit)
}

// StatusOf derives remaining and percentage from spent and limit. The
// percentage is clamped to [0, 100] and remaining never goes below zero.
func StatusOf(spent, limit int64) Status {
	s := Status{Spent: spent}
	if limit > spent {
		s.Remaining = limit - spent
	}
	switch {
	case limit <= 0:
		if spent > 0 {
			s.Percentage = 100
		}
	default:
		s.Percentage = clampPercent(float64(spent) * 100 / float64(limit))
	}
	return s
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Search returns transactions whose description or note contains query,
// ignoring case. Surrounding spaces are part of the query; a blank query
// matches nothing.
func Search(txs []models.Transaction, query string) []models.Transaction {
	out := make([]models.Transaction, 0)
	if strings.TrimSpace(query) == "" {
		return out
	}
	q := strings.ToLower(query)
	for _, t := range txs {
		if strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(strings.ToLower(t.NoteText()), q) {
			out = append(out, t)
		}
	}
	return out
}

// DayTotal is the expense total of one calendar day.
type DayTotal struct {
	Date   time.Time `json:"date"`
	Amount int64     `json:"amount"`
}

// DailyExpenses returns expense totals for the last days days ending today,
// oldest first. Days without expenses are present with a zero amount.
func DailyExpenses(txs []models.Transaction, days int, now time.Time) []DayTotal {
	if days <= 0 {
		return []DayTotal{}
	}
	today := StartOfDay(now)
	out := make([]DayTotal, days)
	for i := 0; i < days; i++ {
		out[i].Date = today.AddDate(0, 0, i-days+1)
	}
	first := out[0].Date
	for _, t := range txs {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		d := StartOfDay(t.Date.In(now.Location()))
		if d.Before(first) || d.After(today) {
			continue
		}
		idx := daysBetween(first, d)
		if idx >= 0 && idx < days {
			out[idx].Amount += t.Amount
		}
	}
	return out
}

// daysBetween counts calendar days from a to b; both are midnights in the
// same location, so DST shifts are absorbed by rounding.
func daysBetween(a, b time.Time) int {
	return int((b.Sub(a) + 12*time.Hour) / (24 * time.Hour))
}

// Progress is how far a savings goal has come.
type Progress struct {
	Percentage float64 `json:"percentage"`
	Remaining  int64   `json:"remaining"`
	Completed  bool    `json:"completed"`
}

// GoalProgress computes the percentage of the target saved and what is left.
func GoalProgress(goal models.SavingsGoal) Progress {
	p := Progress{Completed: goal.TargetAmount > 0 && goal.CurrentAmount >= goal.TargetAmount}
	if goal.TargetAmount > goal.CurrentAmount {
		p.Remaining = goal.TargetAmount - goal.CurrentAmount
	}
	if goal.TargetAmount > 0 {
		p.Percentage = clampPercent(float64(goal.CurrentAmount) * 100 / float64(goal.TargetAmount))
	}
	return p
}
