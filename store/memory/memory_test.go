package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fintrack/api/models"
	"fintrack/api/store"
)

var _ store.Store = (*Store)(nil)

func TestInsertPeriodUniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := New()

	p := &models.SalaryPeriod{UserID: "U1", Month: 10, Year: 2025, Amount: 100, Remaining: 100}
	if err := st.InsertPeriod(ctx, p); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	dup := &models.SalaryPeriod{UserID: "U1", Month: 10, Year: 2025, Amount: 200, Remaining: 200}
	if err := st.InsertPeriod(ctx, dup); !errors.Is(err, store.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// Different user or different month is not a duplicate.
	if err := st.InsertPeriod(ctx, &models.SalaryPeriod{UserID: "U2", Month: 10, Year: 2025, Amount: 1, Remaining: 1}); err != nil {
		t.Fatalf("other user insert: %v", err)
	}
	if err := st.InsertPeriod(ctx, &models.SalaryPeriod{UserID: "U1", Month: 11, Year: 2025, Amount: 1, Remaining: 1}); err != nil {
		t.Fatalf("other month insert: %v", err)
	}
}

func TestDecrementRemainingConditional(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := New()

	p := &models.SalaryPeriod{UserID: "U1", Month: 1, Year: 2026, Amount: 100, Remaining: 100}
	if err := st.InsertPeriod(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	updated, err := st.DecrementRemaining(ctx, p.ID, 60)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if updated == nil || updated.Remaining != 40 {
		t.Fatalf("updated = %+v, want remaining 40", updated)
	}

	// Insufficient balance matches nothing and changes nothing.
	updated, err = st.DecrementRemaining(ctx, p.ID, 41)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil for insufficient balance, got %+v", updated)
	}
	got, _ := st.FindPeriodByID(ctx, p.ID, "")
	if got.Remaining != 40 {
		t.Fatalf("remaining = %v, want 40", got.Remaining)
	}

	// Missing period also matches nothing.
	updated, err = st.DecrementRemaining(ctx, "missing", 1)
	if err != nil || updated != nil {
		t.Fatalf("expected nil, nil for missing period, got %+v, %v", updated, err)
	}
}

// The check and the write must be indivisible: hammering one period
// concurrently can never overdraw it.
func TestDecrementRemainingConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := New()

	p := &models.SalaryPeriod{UserID: "U1", Month: 1, Year: 2026, Amount: 50, Remaining: 50}
	if err := st.InsertPeriod(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	const workers = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if updated, _ := st.DecrementRemaining(ctx, p.ID, 10); updated != nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 5 {
		t.Fatalf("got %d successful decrements, want 5", successes)
	}
	got, _ := st.FindPeriodByID(ctx, p.ID, "")
	if got.Remaining != 0 {
		t.Fatalf("remaining = %v, want 0", got.Remaining)
	}
}

func TestIncrementRemainingMissingPeriodIsNoop(t *testing.T) {
	t.Parallel()
	if err := New().IncrementRemaining(context.Background(), "missing", 10); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestExpenseFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := New()

	dates := []time.Time{
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		e := &models.Expense{UserID: "U1", Title: "e", Amount: float64(i + 1), Category: "c", Date: d}
		if err := st.InsertExpense(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	cases := []struct {
		name   string
		filter store.ExpenseFilter
		want   int
	}{
		{"month and year", store.ExpenseFilter{Month: 10, Year: 2025}, 1},
		{"month only spans years", store.ExpenseFilter{Month: 10}, 2},
		{"year only", store.ExpenseFilter{Year: 2025}, 2},
		{"no filter", store.ExpenseFilter{}, 3},
		{"other user", store.ExpenseFilter{UserID: "U2"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := st.ListExpenses(ctx, tc.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d expenses, want %d", len(got), tc.want)
			}
		})
	}
}

func TestSumExpensesByCategoryOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := New()

	seed := []struct {
		category string
		amount   float64
	}{
		{"food", 10}, {"housing", 500}, {"food", 20}, {"transport", 200},
	}
	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range seed {
		e := &models.Expense{UserID: "U1", Title: "e", Amount: s.amount, Category: s.category, Date: date}
		if err := st.InsertExpense(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := st.SumExpensesByCategory(ctx, store.ExpenseFilter{Month: 5, Year: 2025})
	if err != nil {
		t.Fatalf("sum by category: %v", err)
	}
	want := []models.CategoryTotal{
		{Category: "housing", Total: 500},
		{Category: "transport", Total: 200},
		{Category: "food", Total: 30},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGoalOrderingAndLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := New()

	for _, priority := range []int{2, 9, 5} {
		g := &models.Goal{UserID: "U1", Title: "g", Priority: priority}
		if err := st.InsertGoal(ctx, g); err != nil {
			t.Fatalf("insert goal: %v", err)
		}
	}

	goals, err := st.ListGoals(ctx, store.GoalFilter{UserID: "U1"}, 2)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(goals) != 2 || goals[0].Priority != 9 || goals[1].Priority != 5 {
		t.Fatalf("unexpected goals: %+v", goals)
	}
}

func TestDeleteMissingRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := New()

	if err := st.DeleteExpense(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete expense: expected ErrNotFound, got %v", err)
	}
	if err := st.DeleteGoal(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete goal: expected ErrNotFound, got %v", err)
	}
	if err := st.UpdateGoal(ctx, &models.Goal{ID: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update goal: expected ErrNotFound, got %v", err)
	}
}
