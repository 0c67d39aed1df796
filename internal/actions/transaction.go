package actions

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"finchat/internal/domain"
)

// expenseBudgetFactor sizes the budget of an auto-created expense category
// from the first transaction booked into it.
const expenseBudgetFactor = 10

// CreateTransaction books a money movement. The category is resolved by
// substring match on name and type; when absent it is auto-created. Expense
// amounts are stored negative, income positive.
func (h *Handlers) CreateTransaction(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.TransactionPayload](*act)
	if err != nil {
		return "", err
	}
	if err := payload.Validate(); err != nil {
		return "", err
	}

	category, err := h.resolveOrCreateCategory(ctx, uc, payload)
	if err != nil {
		return "", err
	}

	date := h.now()
	if payload.Date != "" {
		if parsed, perr := domain.ParseISODate(payload.Date); perr == nil {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(),
				date.Hour(), date.Minute(), date.Second(), 0, date.Location())
			date = parsed
		}
	}

	amount := math.Abs(payload.Amount)
	if payload.Type == domain.CategoryExpense {
		amount = -amount
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      uc.UserID,
		CategoryID:  category.ID,
		Description: payload.Description,
		Amount:      amount,
		Type:        payload.Type,
		Date:        date,
	}

	if err := h.store.CreateTransaction(ctx, tx); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui salvar a transação %q", payload.Description)
	}

	h.log.Info().
		Str("transaction_id", tx.ID).
		Str("category", category.Name).
		Float64("amount", tx.Amount).
		Msg("transaction created")

	verb := "Despesa"
	if payload.Type == domain.CategoryIncome {
		verb = "Receita"
	}
	return fmt.Sprintf("%s registrada: %s, R$ %.2f (%s)", verb, payload.Description, math.Abs(amount), category.Name), nil
}

// resolveOrCreateCategory finds the referenced category or creates it with the
// budget heuristic: expense budget is ten times the transaction amount, income
// budget is zero.
func (h *Handlers) resolveOrCreateCategory(ctx context.Context, uc *domain.UserContext, payload domain.TransactionPayload) (*domain.Category, error) {
	name := strings.TrimSpace(payload.Category)
	if name == "" {
		name = "Outros"
	}

	if existing, ok := findCategory(uc.Categories, name, payload.Type); ok {
		return existing, nil
	}

	budget := 0.0
	if payload.Type == domain.CategoryExpense {
		budget = math.Abs(payload.Amount) * expenseBudgetFactor
	}

	category := &domain.Category{
		ID:        uuid.NewString(),
		UserID:    uc.UserID,
		Name:      name,
		Type:      payload.Type,
		Budget:    budget,
		CreatedAt: h.now(),
	}

	if err := h.store.CreateCategory(ctx, category); err != nil {
		return nil, domain.WrapFault(domain.FaultPersistence, err, "não consegui criar a categoria %q", name)
	}

	h.log.Info().Str("category", name).Float64("budget", budget).Msg("category auto-created")
	return category, nil
}
