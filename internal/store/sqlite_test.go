package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finchat/internal/domain"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "finchat.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteUserRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if _, err := s.GetUser(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUser(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.CreateUser(ctx, &domain.User{ID: "u1", Name: "Demo"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	u, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if u.Name != "Demo" {
		t.Errorf("Name = %q, want Demo", u.Name)
	}
}

func TestSQLiteTransactionsAndBalance(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, &domain.User{ID: "u1", Name: "Demo"}); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, tx := range []domain.Transaction{
		{ID: "t1", UserID: "u1", Description: "Salário", Amount: 3000, Type: domain.CategoryIncome, Date: base},
		{ID: "t2", UserID: "u1", Description: "Mercado", Amount: -120, Type: domain.CategoryExpense, Date: base.AddDate(0, 0, 3)},
		{ID: "t3", UserID: "u1", Description: "Farmácia", Amount: -80, Type: domain.CategoryExpense, Date: base.AddDate(0, 0, 1)},
	} {
		tx := tx
		if err := s.CreateTransaction(ctx, &tx); err != nil {
			t.Fatalf("CreateTransaction(%s) error = %v", tx.ID, err)
		}
	}

	balance, err := s.Balance(ctx, "u1")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance != 2800 {
		t.Errorf("Balance = %.2f, want 2800", balance)
	}

	txs, err := s.ListRecentTransactions(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListRecentTransactions() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want the limit applied", len(txs))
	}
	if txs[0].ID != "t2" || txs[1].ID != "t3" {
		t.Errorf("order = %s, %s, want newest first (t2, t3)", txs[0].ID, txs[1].ID)
	}

	if err := s.DeleteTransaction(ctx, "u1", "t2"); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u1", "t2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice error = %v, want ErrNotFound", err)
	}

	balance, _ = s.Balance(ctx, "u1")
	if balance != 2920 {
		t.Errorf("Balance after delete = %.2f, want 2920", balance)
	}
}

func TestSQLiteBillsOrderedByDueDate(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, &domain.User{ID: "u1", Name: "Demo"}); err != nil {
		t.Fatal(err)
	}

	for _, b := range []domain.Bill{
		{ID: "b-late", UserID: "u1", Title: "IPVA", Amount: 900, Type: domain.BillPayable,
			DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Status: domain.BillPending},
		{ID: "b-early", UserID: "u1", Title: "Conta de luz", Amount: 150, Type: domain.BillPayable,
			DueDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), Status: domain.BillPending,
			IsRecurring: true, RecurringInterval: "monthly"},
	} {
		b := b
		if err := s.CreateBill(ctx, &b); err != nil {
			t.Fatalf("CreateBill(%s) error = %v", b.ID, err)
		}
	}

	bills, err := s.ListBills(ctx, "u1")
	if err != nil {
		t.Fatalf("ListBills() error = %v", err)
	}
	if len(bills) != 2 {
		t.Fatalf("len(bills) = %d, want 2", len(bills))
	}
	if bills[0].ID != "b-early" {
		t.Errorf("first bill = %s, want the one with the nearest due date", bills[0].ID)
	}
	if !bills[0].IsRecurring || bills[0].RecurringInterval != "monthly" {
		t.Errorf("recurrence did not round-trip: %+v", bills[0])
	}

	paid := bills[0]
	paid.Status = domain.BillPaid
	if err := s.UpdateBill(ctx, &paid); err != nil {
		t.Fatalf("UpdateBill() error = %v", err)
	}

	bills, _ = s.ListBills(ctx, "u1")
	if bills[0].Status != domain.BillPaid {
		t.Errorf("Status = %q, want paid", bills[0].Status)
	}

	missing := paid
	missing.ID = "b-ghost"
	if err := s.UpdateBill(ctx, &missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateBill(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteBill(ctx, "u1", "b-late"); err != nil {
		t.Fatalf("DeleteBill() error = %v", err)
	}
	if err := s.DeleteBill(ctx, "u1", "b-late"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteGoalRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, &domain.User{ID: "u1", Name: "Demo"}); err != nil {
		t.Fatal(err)
	}

	target := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	goal := &domain.Goal{
		ID: "g1", UserID: "u1", Title: "Viagem",
		TargetAmount: 5000, CurrentAmount: 1000,
		TargetDate: &target, Status: domain.GoalActive,
	}
	if err := s.CreateGoal(ctx, goal); err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}

	noDate := &domain.Goal{
		ID: "g2", UserID: "u1", Title: "Reserva",
		TargetAmount: 10000, Status: domain.GoalActive,
	}
	if err := s.CreateGoal(ctx, noDate); err != nil {
		t.Fatalf("CreateGoal(no date) error = %v", err)
	}

	goals, err := s.ListGoals(ctx, "u1")
	if err != nil {
		t.Fatalf("ListGoals() error = %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("len(goals) = %d, want 2", len(goals))
	}

	byID := map[string]domain.Goal{}
	for _, g := range goals {
		byID[g.ID] = g
	}
	if byID["g1"].TargetDate == nil || !byID["g1"].TargetDate.Equal(target) {
		t.Errorf("TargetDate did not round-trip: %+v", byID["g1"].TargetDate)
	}
	if byID["g2"].TargetDate != nil {
		t.Errorf("absent TargetDate must stay nil, got %v", byID["g2"].TargetDate)
	}

	updated := byID["g1"]
	updated.CurrentAmount = 5000
	updated.Status = domain.GoalCompleted
	if err := s.UpdateGoal(ctx, &updated); err != nil {
		t.Fatalf("UpdateGoal() error = %v", err)
	}

	goals, _ = s.ListGoals(ctx, "u1")
	for _, g := range goals {
		if g.ID == "g1" && g.Status != domain.GoalCompleted {
			t.Errorf("Status = %q, want completed", g.Status)
		}
	}
}

func TestSQLiteCategoriesScopedByUser(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, id := range []string{"u1", "u2"} {
		if err := s.CreateUser(ctx, &domain.User{ID: id, Name: id}); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.CreateCategory(ctx, &domain.Category{
		ID: "c1", UserID: "u1", Name: "Alimentação", Type: domain.CategoryExpense, Budget: 800,
	}); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	mine, err := s.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(mine) != 1 || mine[0].Budget != 800 {
		t.Fatalf("categories = %+v", mine)
	}

	theirs, _ := s.ListCategories(ctx, "u2")
	if len(theirs) != 0 {
		t.Error("categories must be scoped to their user")
	}
}
