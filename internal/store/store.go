// Package store defines the data-store boundary of the assistant: CRUD
// operations per entity, always scoped by the owning user id.
package store

import (
	"context"
	"errors"

	"finchat/internal/domain"
)

// ErrNotFound is returned by reads whose target record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository resolves and creates users.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
}

// CategoryRepository persists transaction categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
}

// TransactionRepository persists committed money movements.
type TransactionRepository interface {
	ListRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, t *domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	Balance(ctx context.Context, userID string) (float64, error)
}

// GoalRepository persists savings goals.
type GoalRepository interface {
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	CreateGoal(ctx context.Context, g *domain.Goal) error
	UpdateGoal(ctx context.Context, g *domain.Goal) error
}

// BillRepository persists bills. ListBills returns bills ordered by due date,
// soonest first.
type BillRepository interface {
	ListBills(ctx context.Context, userID string) ([]domain.Bill, error)
	CreateBill(ctx context.Context, b *domain.Bill) error
	UpdateBill(ctx context.Context, b *domain.Bill) error
	DeleteBill(ctx context.Context, userID, id string) error
}

// Store aggregates every repository behind one handle.
type Store interface {
	UserRepository
	CategoryRepository
	TransactionRepository
	GoalRepository
	BillRepository
	Close() error
}
