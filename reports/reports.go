// Package reports builds the read-only dashboard projections. Nothing
// here mutates the store, so every function is a pure view of its state.
package reports

import (
	"context"
	"time"

	"fintrack/api/models"
	"fintrack/api/store"
)

const topGoalsLimit = 5

type Reporter struct {
	store store.Store
	now   func() time.Time
}

func New(s store.Store) *Reporter {
	return &Reporter{store: s, now: time.Now}
}

// Overview summarizes one month: the salary period (if any), what is
// left of it, the month's total expenses, and the top goals.
type Overview struct {
	Salary        *models.SalaryPeriod `json:"salary"`
	Remaining     float64              `json:"remaining"`
	TotalExpenses float64              `json:"totalExpenses"`
	GoalsSummary  GoalsSummary         `json:"goalsSummary"`
}

type GoalsSummary struct {
	TotalGoals int64         `json:"totalGoals"`
	TopGoals   []models.Goal `json:"topGoals"`
}

// HistoryEntry is one month of the trailing history. SalaryTotal is the
// period's full amount, not its remaining balance.
type HistoryEntry struct {
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	SalaryTotal   float64 `json:"salaryTotal"`
	TotalExpenses float64 `json:"totalExpenses"`
}

// MonthlySummary is the aggregate view of one month's expenses.
type MonthlySummary struct {
	TotalExpenses float64                `json:"totalExpenses"`
	ByCategory    []models.CategoryTotal `json:"byCategory"`
}

// Overview reports the given month for the owner scope; an empty scope
// spans all owners (admin view).
func (r *Reporter) Overview(ctx context.Context, ownerScope string, month, year int) (*Overview, error) {
	salary, err := r.store.FindPeriod(ctx, store.PeriodFilter{UserID: ownerScope, Month: month, Year: year})
	if err != nil {
		return nil, err
	}

	total, err := r.store.SumExpenses(ctx, store.ExpenseFilter{UserID: ownerScope, Month: month, Year: year})
	if err != nil {
		return nil, err
	}

	goalsFilter := store.GoalFilter{UserID: ownerScope}
	totalGoals, err := r.store.CountGoals(ctx, goalsFilter)
	if err != nil {
		return nil, err
	}
	topGoals, err := r.store.ListGoals(ctx, goalsFilter, topGoalsLimit)
	if err != nil {
		return nil, err
	}

	out := &Overview{
		Salary:        salary,
		TotalExpenses: total,
		GoalsSummary:  GoalsSummary{TotalGoals: totalGoals, TopGoals: topGoals},
	}
	if salary != nil {
		out.Remaining = salary.Remaining
	}
	return out, nil
}

// History returns the trailing months, newest first, ending at the
// current month. Months without a salary period report a zero total.
func (r *Reporter) History(ctx context.Context, ownerScope string, months int) ([]HistoryEntry, error) {
	now := r.now()
	entries := make([]HistoryEntry, 0, months)

	for i := 0; i < months; i++ {
		d := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		month, year := int(d.Month()), d.Year()

		salary, err := r.store.FindPeriod(ctx, store.PeriodFilter{UserID: ownerScope, Month: month, Year: year})
		if err != nil {
			return nil, err
		}
		total, err := r.store.SumExpenses(ctx, store.ExpenseFilter{UserID: ownerScope, Month: month, Year: year})
		if err != nil {
			return nil, err
		}

		entry := HistoryEntry{Month: month, Year: year, TotalExpenses: total}
		if salary != nil {
			entry.SalaryTotal = salary.Amount
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AggregateMonthly totals one month's expenses overall and per category,
// categories sorted by subtotal descending.
func (r *Reporter) AggregateMonthly(ctx context.Context, ownerScope string, month, year int) (*MonthlySummary, error) {
	f := store.ExpenseFilter{UserID: ownerScope, Month: month, Year: year}

	total, err := r.store.SumExpenses(ctx, f)
	if err != nil {
		return nil, err
	}
	byCategory, err := r.store.SumExpensesByCategory(ctx, f)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{TotalExpenses: total, ByCategory: byCategory}, nil
}
