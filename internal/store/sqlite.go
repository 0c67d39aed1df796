package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"finchat/internal/domain"
)

const timeLayout = time.RFC3339

// SQLite is the Store implementation backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating when absent) the database at dbPath and applies
// pending migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM users WHERE id = ?`, id)

	var u domain.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

func (s *SQLite) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)`,
		u.ID, u.Name, formatTime(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLite) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, budget, color, icon, created_at
		 FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Budget, &c.Color, &c.Icon, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLite) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, type, budget, color, icon, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Type, c.Budget, c.Color, c.Icon, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *SQLite) ListRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, description, amount, type, date
		 FROM transactions WHERE user_id = ? ORDER BY date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var date string
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Description, &t.Amount, &t.Type, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date = parseTime(date)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, category_id, description, amount, type, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.CategoryID, t.Description, t.Amount, t.Type, formatTime(t.Date))
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) Balance(ctx context.Context, userID string) (float64, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ?`, userID)
	var balance float64
	if err := row.Scan(&balance); err != nil {
		return 0, fmt.Errorf("balance: %w", err)
	}
	return balance, nil
}

func (s *SQLite) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, target_amount, current_amount, target_date, status
		 FROM goals WHERE user_id = ? ORDER BY title`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []domain.Goal
	for rows.Next() {
		var g domain.Goal
		var targetDate sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &targetDate, &g.Status); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if targetDate.Valid && targetDate.String != "" {
			td := parseTime(targetDate.String)
			g.TargetDate = &td
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLite) CreateGoal(ctx context.Context, g *domain.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, title, target_amount, current_amount, target_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, g.TargetAmount, g.CurrentAmount, formatNullableTime(g.TargetDate), g.Status)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateGoal(ctx context.Context, g *domain.Goal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET title = ?, target_amount = ?, current_amount = ?, target_date = ?, status = ?
		 WHERE user_id = ? AND id = ?`,
		g.Title, g.TargetAmount, g.CurrentAmount, formatNullableTime(g.TargetDate), g.Status, g.UserID, g.ID)
	if err != nil {
		return fmt.Errorf("update goal %s: %w", g.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) ListBills(ctx context.Context, userID string) ([]domain.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, amount, type, due_date, status, is_recurring, recurring_interval
		 FROM bills WHERE user_id = ? ORDER BY due_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var out []domain.Bill
	for rows.Next() {
		var b domain.Bill
		var dueDate string
		var recurring int
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Amount, &b.Type, &dueDate, &b.Status, &recurring, &b.RecurringInterval); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		b.DueDate = parseTime(dueDate)
		b.IsRecurring = recurring != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLite) CreateBill(ctx context.Context, b *domain.Bill) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (id, user_id, title, amount, type, due_date, status, is_recurring, recurring_interval)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Title, b.Amount, b.Type, formatTime(b.DueDate), b.Status, boolToInt(b.IsRecurring), b.RecurringInterval)
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateBill(ctx context.Context, b *domain.Bill) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bills SET title = ?, amount = ?, type = ?, due_date = ?, status = ?, is_recurring = ?, recurring_interval = ?
		 WHERE user_id = ? AND id = ?`,
		b.Title, b.Amount, b.Type, formatTime(b.DueDate), b.Status, boolToInt(b.IsRecurring), b.RecurringInterval, b.UserID, b.ID)
	if err != nil {
		return fmt.Errorf("update bill %s: %w", b.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) DeleteBill(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bills WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete bill %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
