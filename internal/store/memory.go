package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"finchat/internal/domain"
)

// Memory is an in-memory Store. It backs the "memory" data backend for quick
// local runs and serves as the test double for the handlers and the session.
type Memory struct {
	mu           sync.Mutex
	users        map[string]domain.User
	categories   []domain.Category
	transactions []domain.Transaction
	goals        []domain.Goal
	bills        []domain.Bill
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]domain.User)}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) ListCategories(_ context.Context, userID string) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *Memory) CreateCategory(_ context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, *c)
	return nil
}

func (m *Memory) ListRecentTransactions(_ context.Context, userID string, limit int) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, t := range m.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) CreateTransaction(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, *t)
	return nil
}

func (m *Memory) DeleteTransaction(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.transactions {
		if t.UserID == userID && t.ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Balance(_ context.Context, userID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var balance float64
	for _, t := range m.transactions {
		if t.UserID == userID {
			balance += t.Amount
		}
	}
	return balance, nil
}

func (m *Memory) ListGoals(_ context.Context, userID string) ([]domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *Memory) CreateGoal(_ context.Context, g *domain.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = append(m.goals, *g)
	return nil
}

func (m *Memory) UpdateGoal(_ context.Context, g *domain.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.goals {
		if existing.UserID == g.UserID && existing.ID == g.ID {
			m.goals[i] = *g
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) ListBills(_ context.Context, userID string) ([]domain.Bill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Bill
	for _, b := range m.bills {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *Memory) CreateBill(_ context.Context, b *domain.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills = append(m.bills, *b)
	return nil
}

func (m *Memory) UpdateBill(_ context.Context, b *domain.Bill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.bills {
		if existing.UserID == b.UserID && existing.ID == b.ID {
			m.bills[i] = *b
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteBill(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bills {
		if b.UserID == userID && b.ID == id {
			m.bills = append(m.bills[:i], m.bills[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
