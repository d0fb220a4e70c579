// Package memory is an in-process Store backend. It backs tests and the
// DATA_BACKEND=memory development mode; semantics mirror the mongo
// backend, including the atomicity of the conditional decrement.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/api/models"
	"fintrack/api/store"
)

type Store struct {
	mu       sync.RWMutex
	periods  map[string]models.SalaryPeriod
	expenses map[string]models.Expense
	goals    map[string]models.Goal
}

func New() *Store {
	return &Store{
		periods:  make(map[string]models.SalaryPeriod),
		expenses: make(map[string]models.Expense),
		goals:    make(map[string]models.Goal),
	}
}

func (s *Store) InsertPeriod(_ context.Context, p *models.SalaryPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.periods {
		if existing.UserID == p.UserID && existing.Month == p.Month && existing.Year == p.Year {
			return store.ErrDuplicateKey
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.periods[p.ID] = *p
	return nil
}

func (s *Store) FindPeriod(_ context.Context, f store.PeriodFilter) (*models.SalaryPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.periods {
		if matchPeriod(p, f) {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) FindPeriodByID(_ context.Context, id, userID string) (*models.SalaryPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.periods[id]
	if !ok || (userID != "" && p.UserID != userID) {
		return nil, nil
	}
	out := p
	return &out, nil
}

func (s *Store) ListPeriods(_ context.Context, f store.PeriodFilter) ([]models.SalaryPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.SalaryPeriod{}
	for _, p := range s.periods {
		if matchPeriod(p, f) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DecrementRemaining holds the write lock across the sufficiency check
// and the update, giving the same all-or-nothing behavior as the mongo
// backend's findOneAndUpdate.
func (s *Store) DecrementRemaining(_ context.Context, id string, amount float64) (*models.SalaryPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.periods[id]
	if !ok || p.Remaining < amount {
		return nil, nil
	}
	p.Remaining -= amount
	p.UpdatedAt = time.Now()
	s.periods[id] = p
	out := p
	return &out, nil
}

func (s *Store) IncrementRemaining(_ context.Context, id string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.periods[id]
	if !ok {
		return nil
	}
	p.Remaining += amount
	p.UpdatedAt = time.Now()
	s.periods[id] = p
	return nil
}

func (s *Store) InsertExpense(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now()
	s.expenses[e.ID] = *e
	return nil
}

func (s *Store) FindExpenseByID(_ context.Context, id string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, nil
	}
	out := e
	return &out, nil
}

func (s *Store) ListExpenses(_ context.Context, f store.ExpenseFilter) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Expense{}
	for _, e := range s.expenses {
		if matchExpense(e, f) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) SumExpenses(_ context.Context, f store.ExpenseFilter) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, e := range s.expenses {
		if matchExpense(e, f) {
			total += e.Amount
		}
	}
	return total, nil
}

func (s *Store) SumExpensesByCategory(_ context.Context, f store.ExpenseFilter) ([]models.CategoryTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := map[string]float64{}
	for _, e := range s.expenses {
		if matchExpense(e, f) {
			totals[e.Category] += e.Amount
		}
	}
	out := make([]models.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		out = append(out, models.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) InsertGoal(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) FindGoalByID(_ context.Context, id string) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, nil
	}
	out := g
	return &out, nil
}

func (s *Store) ListGoals(_ context.Context, f store.GoalFilter, limit int) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Goal{}
	for _, g := range s.goals {
		if f.UserID == "" || g.UserID == f.UserID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.goals[g.ID]
	if !ok {
		return store.ErrNotFound
	}
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now()
	s.goals[g.ID] = *g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) CountGoals(_ context.Context, f store.GoalFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, g := range s.goals {
		if f.UserID == "" || g.UserID == f.UserID {
			n++
		}
	}
	return n, nil
}

func matchPeriod(p models.SalaryPeriod, f store.PeriodFilter) bool {
	if f.UserID != "" && p.UserID != f.UserID {
		return false
	}
	if f.Month != 0 && p.Month != f.Month {
		return false
	}
	if f.Year != 0 && p.Year != f.Year {
		return false
	}
	return true
}

func matchExpense(e models.Expense, f store.ExpenseFilter) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	switch {
	case f.Month != 0 && f.Year != 0:
		return e.Date.Year() == f.Year && int(e.Date.Month()) == f.Month
	case f.Month != 0:
		return int(e.Date.Month()) == f.Month
	case f.Year != 0:
		return e.Date.Year() == f.Year
	}
	return true
}
