package agent

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"finchat/internal/domain"
	"finchat/internal/store"
)

// recentTransactionLimit bounds the transaction slice loaded into the context
// snapshot.
const recentTransactionLimit = 20

// LoadUserContext assembles the snapshot of the user's financial state that
// grounds interpretation. The user must resolve before anything else; the five
// independent reads then run concurrently and are joined before analysis. Any
// failed read fails the whole turn.
func LoadUserContext(ctx context.Context, st store.Store, userID string, now time.Time) (*domain.UserContext, error) {
	user, err := st.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.NewFault(domain.FaultUnauthenticated, "usuário %q não encontrado", userID)
		}
		return nil, domain.WrapFault(domain.FaultUnauthenticated, err, "não foi possível identificar o usuário")
	}

	uc := &domain.UserContext{UserID: user.ID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		balance, err := st.Balance(gctx, user.ID)
		if err != nil {
			return err
		}
		uc.CurrentBalance = balance
		return nil
	})
	g.Go(func() error {
		categories, err := st.ListCategories(gctx, user.ID)
		if err != nil {
			return err
		}
		uc.Categories = categories
		return nil
	})
	g.Go(func() error {
		transactions, err := st.ListRecentTransactions(gctx, user.ID, recentTransactionLimit)
		if err != nil {
			return err
		}
		uc.RecentTransactions = transactions
		return nil
	})
	g.Go(func() error {
		goals, err := st.ListGoals(gctx, user.ID)
		if err != nil {
			return err
		}
		uc.Goals = goals
		return nil
	})
	g.Go(func() error {
		bills, err := st.ListBills(gctx, user.ID)
		if err != nil {
			return err
		}
		uc.Bills = bills
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, domain.WrapFault(domain.FaultPersistence, err, "não foi possível carregar seus dados financeiros")
	}

	uc.MonthlyIncome, uc.MonthlyExpenses = monthlyTotals(uc.RecentTransactions, now)
	return uc, nil
}

// monthlyTotals sums income and expense magnitudes for the current calendar
// month.
func monthlyTotals(transactions []domain.Transaction, now time.Time) (income, expenses float64) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	for _, t := range transactions {
		if t.Date.Before(monthStart) || !t.Date.Before(nextMonth) {
			continue
		}
		if t.Type == domain.CategoryIncome {
			income += t.Amount
		} else {
			expenses += -t.Amount
		}
	}
	return income, expenses
}
