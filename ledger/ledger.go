// Package ledger is the balance engine: it owns the invariant that a
// salary period's remaining balance equals its amount minus the sum of
// all expenses drawing from it. The engine keeps no state of its own;
// correctness under concurrent requests rests entirely on the store's
// conditional decrement.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fintrack/api/logger"
	"fintrack/api/models"
	"fintrack/api/store"
)

var (
	// ErrNoPeriod means the expense could not be attached to a salary
	// period, either because the referenced one is absent or because
	// no period exists for the expense's month.
	ErrNoPeriod = errors.New("no salary period found")

	// ErrInsufficientBalance means the conditional decrement matched
	// nothing: the period's remaining balance cannot cover the amount.
	ErrInsufficientBalance = errors.New("insufficient remaining salary")

	// ErrConflict means a salary period already exists for the same
	// user, month and year.
	ErrConflict = errors.New("salary period already exists")

	// ErrNotFound means the addressed expense does not exist.
	ErrNotFound = errors.New("expense not found")

	// ErrForbidden means the caller is neither the record's owner nor
	// an admin.
	ErrForbidden = errors.New("access denied")

	// ErrInvalidInput means an engine precondition failed.
	ErrInvalidInput = errors.New("invalid input")
)

// ExpenseInput carries the caller-supplied fields of a new expense.
type ExpenseInput struct {
	Title    string
	Amount   float64
	Category string
	Date     time.Time
	Note     string
}

type Engine struct {
	periods  store.PeriodStore
	expenses store.ExpenseStore
}

func New(periods store.PeriodStore, expenses store.ExpenseStore) *Engine {
	return &Engine{periods: periods, expenses: expenses}
}

// ResolvePeriod locates the salary period an expense should draw from.
// An explicit reference wins over the date; both are scoped to owner.
func (e *Engine) ResolvePeriod(ctx context.Context, owner string, ref store.PeriodRef) (*models.SalaryPeriod, error) {
	if ref.Explicit() {
		p, err := e.periods.FindPeriodByID(ctx, ref.ID(), owner)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w for provided salaryRef", ErrNoPeriod)
		}
		return p, nil
	}

	month, year := ref.MonthYear()
	p, err := e.periods.FindPeriod(ctx, store.PeriodFilter{UserID: owner, Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w for this month/year", ErrNoPeriod)
	}
	return p, nil
}

// RecordExpense creates an expense against the resolved period. The
// sufficiency check and the balance decrement are one atomic store
// operation; the expense document is only written after that operation
// reports success. If the expense write then fails, the decrement is
// compensated by re-incrementing the balance.
func (e *Engine) RecordExpense(ctx context.Context, owner string, ref store.PeriodRef, in ExpenseInput) (*models.Expense, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	period, err := e.ResolvePeriod(ctx, owner, ref)
	if err != nil {
		return nil, err
	}

	updated, err := e.periods.DecrementRemaining(ctx, period.ID, in.Amount)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrInsufficientBalance
	}

	expense := &models.Expense{
		UserID:    owner,
		Title:     in.Title,
		Amount:    in.Amount,
		Category:  in.Category,
		Date:      in.Date,
		Note:      in.Note,
		SalaryRef: period.ID,
	}
	if err := e.expenses.InsertExpense(ctx, expense); err != nil {
		// The balance is already decremented with no expense backing
		// it. The two writes are not one transaction, so put the
		// amount back; if even that fails the balance is understated
		// until someone reconciles it by hand.
		if compErr := e.periods.IncrementRemaining(ctx, period.ID, in.Amount); compErr != nil {
			logger.Get().Error("balance compensation failed, remaining is understated",
				zap.String("period_id", period.ID),
				zap.Float64("amount", in.Amount),
				zap.NamedError("insert_error", err),
				zap.Error(compErr))
			return nil, fmt.Errorf("compensation failed: %w", store.ErrUnavailable)
		}
		logger.Get().Warn("expense insert failed, balance decrement compensated",
			zap.String("period_id", period.ID),
			zap.Float64("amount", in.Amount),
			zap.Error(err))
		return nil, err
	}

	return expense, nil
}

// DeleteExpense removes the expense and restores its amount to the
// referenced period. The two steps are not atomic; a crash in between
// leaves the balance understated with no automatic reconciliation.
// A period that no longer exists makes the restore a silent no-op.
func (e *Engine) DeleteExpense(ctx context.Context, caller models.Caller, id string) error {
	expense, err := e.expenses.FindExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrNotFound
	}
	if !caller.IsAdmin() && expense.UserID != caller.ID {
		return ErrForbidden
	}

	if err := e.expenses.DeleteExpense(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := e.periods.IncrementRemaining(ctx, expense.SalaryRef, expense.Amount); err != nil {
		logger.Get().Error("failed to restore balance after expense deletion",
			zap.String("expense_id", expense.ID),
			zap.String("period_id", expense.SalaryRef),
			zap.Float64("amount", expense.Amount),
			zap.Error(err))
		return err
	}
	return nil
}

// CreatePeriod records a month's salary, initializing the remaining
// balance to the full amount. The friendly duplicate check can race
// with a concurrent create, so the store's unique index is the real
// enforcement and its duplicate-key error is mapped the same way.
func (e *Engine) CreatePeriod(ctx context.Context, owner string, month, year int, amount float64) (*models.SalaryPeriod, error) {
	switch {
	case amount <= 0:
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	case month < 1 || month > 12:
		return nil, fmt.Errorf("%w: month must be 1-12", ErrInvalidInput)
	case year < 1970:
		return nil, fmt.Errorf("%w: year must be 1970 or later", ErrInvalidInput)
	}

	existing, err := e.periods.FindPeriod(ctx, store.PeriodFilter{UserID: owner, Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	period := &models.SalaryPeriod{
		UserID:    owner,
		Month:     month,
		Year:      year,
		Amount:    amount,
		Remaining: amount,
	}
	if err := e.periods.InsertPeriod(ctx, period); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return period, nil
}
