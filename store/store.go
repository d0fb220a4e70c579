// Package store defines the persistence contract the rest of the system
// is written against. Two backends implement it: store/mongo (primary)
// and store/memory (development and tests).
package store

import (
	"context"
	"errors"

	"fintrack/api/models"
)

var (
	// ErrNotFound is returned by mutating operations whose target
	// record does not exist. Lookup operations return nil instead.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert violates the unique
	// (user, month, year) constraint on salary periods.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnavailable wraps backend failures that are not a property of
	// the request itself.
	ErrUnavailable = errors.New("store unavailable")
)

// PeriodFilter narrows salary period queries. Zero values mean "any".
type PeriodFilter struct {
	UserID string
	Month  int
	Year   int
}

// ExpenseFilter narrows expense queries by owner and date. Month and
// Year combine as: both set selects that calendar month; month alone
// selects that month across all years; year alone selects the whole
// year.
type ExpenseFilter struct {
	UserID string
	Month  int
	Year   int
}

// GoalFilter narrows goal queries. Zero UserID means "any".
type GoalFilter struct {
	UserID string
}

type PeriodStore interface {
	// InsertPeriod persists a new period, returning ErrDuplicateKey if
	// one already exists for the same (user, month, year).
	InsertPeriod(ctx context.Context, p *models.SalaryPeriod) error

	// FindPeriod returns the single period matching the filter, or nil
	// if there is none.
	FindPeriod(ctx context.Context, f PeriodFilter) (*models.SalaryPeriod, error)

	// FindPeriodByID returns the period with the given id owned by
	// userID, or nil. An empty userID matches any owner.
	FindPeriodByID(ctx context.Context, id, userID string) (*models.SalaryPeriod, error)

	// ListPeriods returns matching periods sorted by year then month,
	// newest first.
	ListPeriods(ctx context.Context, f PeriodFilter) ([]models.SalaryPeriod, error)

	// DecrementRemaining atomically subtracts amount from the period's
	// remaining balance, but only if remaining >= amount at the moment
	// of the update. It returns the updated period, or nil if no
	// document matched (insufficient balance or period gone). The
	// check and the write are a single indivisible operation.
	DecrementRemaining(ctx context.Context, id string, amount float64) (*models.SalaryPeriod, error)

	// IncrementRemaining adds amount back to the period's remaining
	// balance. A missing period is a no-op, not an error.
	IncrementRemaining(ctx context.Context, id string, amount float64) error
}

type ExpenseStore interface {
	InsertExpense(ctx context.Context, e *models.Expense) error

	// FindExpenseByID returns the expense or nil if absent.
	FindExpenseByID(ctx context.Context, id string) (*models.Expense, error)

	// ListExpenses returns matching expenses sorted by date, newest
	// first.
	ListExpenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error)

	// DeleteExpense removes the expense, returning ErrNotFound if it
	// does not exist.
	DeleteExpense(ctx context.Context, id string) error

	// SumExpenses returns the total amount of all matching expenses.
	SumExpenses(ctx context.Context, f ExpenseFilter) (float64, error)

	// SumExpensesByCategory groups matching expenses by category,
	// sorted by subtotal descending.
	SumExpensesByCategory(ctx context.Context, f ExpenseFilter) ([]models.CategoryTotal, error)
}

type GoalStore interface {
	InsertGoal(ctx context.Context, g *models.Goal) error

	// FindGoalByID returns the goal or nil if absent.
	FindGoalByID(ctx context.Context, id string) (*models.Goal, error)

	// ListGoals returns matching goals sorted by priority descending
	// then creation time descending. A positive limit caps the result.
	ListGoals(ctx context.Context, f GoalFilter, limit int) ([]models.Goal, error)

	// UpdateGoal replaces the stored goal, returning ErrNotFound if it
	// does not exist.
	UpdateGoal(ctx context.Context, g *models.Goal) error

	// DeleteGoal removes the goal, returning ErrNotFound if it does
	// not exist.
	DeleteGoal(ctx context.Context, id string) error

	CountGoals(ctx context.Context, f GoalFilter) (int64, error)
}

// Store is the full ledger store capability set.
type Store interface {
	PeriodStore
	ExpenseStore
	GoalStore
}
