package reports

import (
	"context"
	"reflect"
	"testing"
	"time"

	"fintrack/api/models"
	"fintrack/api/store/memory"
)

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	periods := []models.SalaryPeriod{
		{UserID: "U1", Month: 10, Year: 2025, Amount: 20000, Remaining: 5000},
		{UserID: "U1", Month: 9, Year: 2025, Amount: 18000, Remaining: 18000},
		{UserID: "U2", Month: 10, Year: 2025, Amount: 9000, Remaining: 9000},
	}
	for i := range periods {
		if err := st.InsertPeriod(ctx, &periods[i]); err != nil {
			t.Fatalf("seed period: %v", err)
		}
	}

	expenses := []models.Expense{
		{UserID: "U1", Title: "rent", Amount: 12000, Category: "housing", Date: time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)},
		{UserID: "U1", Title: "food", Amount: 2000, Category: "food", Date: time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)},
		{UserID: "U1", Title: "more food", Amount: 1000, Category: "food", Date: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)},
		{UserID: "U1", Title: "bus", Amount: 300, Category: "transport", Date: time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)},
		{UserID: "U2", Title: "other user", Amount: 500, Category: "food", Date: time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)},
	}
	for i := range expenses {
		if err := st.InsertExpense(ctx, &expenses[i]); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}

	for i := 0; i < 7; i++ {
		goal := models.Goal{UserID: "U1", Title: "goal", Priority: i}
		if err := st.InsertGoal(ctx, &goal); err != nil {
			t.Fatalf("seed goal: %v", err)
		}
	}
	return st
}

func TestOverview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := New(seedStore(t))

	got, err := r.Overview(ctx, "U1", 10, 2025)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	if got.Salary == nil || got.Salary.Amount != 20000 {
		t.Fatalf("unexpected salary: %+v", got.Salary)
	}
	if got.Remaining != 5000 {
		t.Fatalf("remaining = %v, want 5000", got.Remaining)
	}
	if got.TotalExpenses != 15000 {
		t.Fatalf("totalExpenses = %v, want 15000", got.TotalExpenses)
	}
	if got.GoalsSummary.TotalGoals != 7 {
		t.Fatalf("totalGoals = %d, want 7", got.GoalsSummary.TotalGoals)
	}
	if len(got.GoalsSummary.TopGoals) != 5 {
		t.Fatalf("topGoals len = %d, want 5", len(got.GoalsSummary.TopGoals))
	}
	if got.GoalsSummary.TopGoals[0].Priority != 6 {
		t.Fatalf("top goal priority = %d, want 6", got.GoalsSummary.TopGoals[0].Priority)
	}
}

func TestOverviewMissingPeriod(t *testing.T) {
	t.Parallel()
	r := New(seedStore(t))

	got, err := r.Overview(context.Background(), "U1", 1, 2024)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got.Salary != nil {
		t.Fatalf("expected nil salary, got %+v", got.Salary)
	}
	if got.Remaining != 0 || got.TotalExpenses != 0 {
		t.Fatalf("expected zero remaining/expenses, got %v/%v", got.Remaining, got.TotalExpenses)
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()
	r := New(seedStore(t))
	r.now = func() time.Time { return time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC) }

	got, err := r.History(context.Background(), "U1", 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	want := []HistoryEntry{
		{Month: 10, Year: 2025, SalaryTotal: 20000, TotalExpenses: 15000},
		{Month: 9, Year: 2025, SalaryTotal: 18000, TotalExpenses: 300},
		{Month: 8, Year: 2025, SalaryTotal: 0, TotalExpenses: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("history mismatch\nwant: %+v\ngot:  %+v", want, got)
	}
}

// History across a year boundary must walk into the previous year.
func TestHistoryYearRollover(t *testing.T) {
	t.Parallel()
	r := New(memory.New())
	r.now = func() time.Time { return time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) }

	got, err := r.History(context.Background(), "U1", 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if got[0].Month != 1 || got[0].Year != 2026 {
		t.Fatalf("entry 0 = %d/%d, want 1/2026", got[0].Month, got[0].Year)
	}
	if got[1].Month != 12 || got[1].Year != 2025 {
		t.Fatalf("entry 1 = %d/%d, want 12/2025", got[1].Month, got[1].Year)
	}
}

func TestAggregateMonthly(t *testing.T) {
	t.Parallel()
	r := New(seedStore(t))

	got, err := r.AggregateMonthly(context.Background(), "U1", 10, 2025)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if got.TotalExpenses != 15000 {
		t.Fatalf("totalExpenses = %v, want 15000", got.TotalExpenses)
	}
	want := []models.CategoryTotal{
		{Category: "housing", Total: 12000},
		{Category: "food", Total: 3000},
	}
	if !reflect.DeepEqual(got.ByCategory, want) {
		t.Fatalf("byCategory mismatch\nwant: %+v\ngot:  %+v", want, got.ByCategory)
	}
}

// Reads are pure projections: repeating them without writes in between
// must give identical results.
func TestReadsAreIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := New(seedStore(t))
	r.now = func() time.Time { return time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC) }

	o1, err := r.Overview(ctx, "U1", 10, 2025)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	o2, _ := r.Overview(ctx, "U1", 10, 2025)
	if !reflect.DeepEqual(o1, o2) {
		t.Fatalf("overview not idempotent\nfirst:  %+v\nsecond: %+v", o1, o2)
	}

	h1, err := r.History(ctx, "U1", 4)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	h2, _ := r.History(ctx, "U1", 4)
	if !reflect.DeepEqual(h1, h2) {
		t.Fatalf("history not idempotent\nfirst:  %+v\nsecond: %+v", h1, h2)
	}
}

// Admin scope (empty owner) spans every user's records.
func TestOverviewAdminScope(t *testing.T) {
	t.Parallel()
	r := New(seedStore(t))

	got, err := r.AggregateMonthly(context.Background(), "", 10, 2025)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got.TotalExpenses != 15500 {
		t.Fatalf("admin totalExpenses = %v, want 15500", got.TotalExpenses)
	}
}
