package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"finchat/internal/domain"
)

// defaultBillHorizon is the fallback due date offset when the user gave
// neither a date nor a day of month.
const defaultBillHorizon = 30 * 24 * time.Hour

// CreateBill registers a payable or receivable obligation. The due date comes
// from an explicit date, else from a day of month (rolled to next month when
// that day already passed), else defaults to thirty days out. Recurrence
// defaults to true unless explicitly false.
func (h *Handlers) CreateBill(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.BillCreatePayload](*act)
	if err != nil {
		return "", err
	}
	if err := payload.Validate(); err != nil {
		return "", err
	}

	billType := payload.Type
	if billType == "" {
		billType = domain.BillPayable
	}

	recurring := true
	if payload.IsRecurring != nil {
		recurring = *payload.IsRecurring
	}
	interval := payload.RecurringInterval
	if interval == "" {
		interval = "monthly"
	}

	bill := &domain.Bill{
		ID:                uuid.NewString(),
		UserID:            uc.UserID,
		Title:             payload.Title,
		Amount:            payload.Amount,
		Type:              billType,
		DueDate:           h.computeDueDate(payload),
		Status:            domain.BillPending,
		IsRecurring:       recurring,
		RecurringInterval: interval,
	}

	if err := h.store.CreateBill(ctx, bill); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui criar a conta %q", payload.Title)
	}

	return fmt.Sprintf("Conta %q criada: R$ %.2f, vence em %s.",
		bill.Title, bill.Amount, bill.DueDate.Format("02/01/2006")), nil
}

func (h *Handlers) computeDueDate(payload domain.BillCreatePayload) time.Time {
	now := h.now()

	if payload.DueDate != "" {
		if parsed, err := domain.ParseISODate(payload.DueDate); err == nil {
			return parsed
		}
	}

	if payload.DueDay >= 1 {
		month := now.Month()
		year := now.Year()
		if payload.DueDay < now.Day() {
			// That day already passed this month.
			month++
		}
		return time.Date(year, month, payload.DueDay, 0, 0, 0, 0, now.Location())
	}

	return now.Add(defaultBillHorizon)
}

// UpdateBill applies the provided fields to an existing bill.
func (h *Handlers) UpdateBill(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.BillUpdatePayload](*act)
	if err != nil {
		return "", err
	}
	if err := payload.Validate(); err != nil {
		return "", err
	}

	bill, err := resolveBill(uc.Bills, payload.BillID, payload.Title)
	if err != nil {
		return "", err
	}

	updated := *bill
	if strings.TrimSpace(payload.NewTitle) != "" {
		updated.Title = strings.TrimSpace(payload.NewTitle)
	}
	if payload.Amount != nil {
		updated.Amount = *payload.Amount
	}
	if payload.DueDate != "" {
		parsed, perr := domain.ParseISODate(payload.DueDate)
		if perr != nil {
			return "", domain.Validationf("data de vencimento %q inválida", payload.DueDate)
		}
		updated.DueDate = parsed
	}
	if payload.Status != "" {
		status := domain.BillStatus(payload.Status)
		switch status {
		case domain.BillPending, domain.BillPaid, domain.BillOverdue, domain.BillCancelled:
			updated.Status = status
		default:
			return "", domain.Validationf("status de conta %q inválido", payload.Status)
		}
	}

	if err := h.store.UpdateBill(ctx, &updated); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui atualizar a conta %q", updated.Title)
	}

	return fmt.Sprintf("Conta %q atualizada.", updated.Title), nil
}

// DeleteBill removes a bill.
func (h *Handlers) DeleteBill(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.BillDeletePayload](*act)
	if err != nil {
		return "", err
	}
	if err := payload.Validate(); err != nil {
		return "", err
	}

	bill, err := resolveBill(uc.Bills, payload.BillID, payload.Title)
	if err != nil {
		return "", err
	}

	if err := h.store.DeleteBill(ctx, uc.UserID, bill.ID); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui excluir a conta %q", bill.Title)
	}

	return fmt.Sprintf("Conta %q excluída.", bill.Title), nil
}

// PayBill settles one bill, or every open bill in bulk mode. With no
// identifier, the open bill with the nearest due date is selected.
func (h *Handlers) PayBill(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.PayBillPayload](*act)
	if err != nil {
		return "", err
	}

	if payload.All {
		return h.payAllBills(ctx, uc)
	}

	var bill *domain.Bill
	if payload.BillID != "" || strings.TrimSpace(payload.Title) != "" {
		bill, err = resolveBill(uc.Bills, payload.BillID, payload.Title)
		if err != nil {
			return "", err
		}
	} else {
		bill = nearestOpenBill(uc.Bills)
		if bill == nil {
			return "", domain.NotFoundf("você não tem nenhuma conta pendente para pagar")
		}
	}

	if !bill.Open() {
		return "", domain.Validationf("a conta %q já está %s", bill.Title, bill.Status)
	}

	return h.payOne(ctx, uc, bill)
}

func (h *Handlers) payAllBills(ctx context.Context, uc *domain.UserContext) (string, error) {
	var lines []string
	var firstErr error
	paid := 0

	for i := range uc.Bills {
		if !uc.Bills[i].Open() {
			continue
		}
		line, err := h.payOne(ctx, uc, &uc.Bills[i])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			lines = append(lines, fmt.Sprintf("%s: %s", uc.Bills[i].Title, domain.UserMessage(err)))
			continue
		}
		paid++
		lines = append(lines, line)
	}

	if paid == 0 {
		if firstErr != nil {
			return "", firstErr
		}
		return "Nenhuma conta pendente para pagar.", nil
	}

	header := fmt.Sprintf("%d conta(s) paga(s):", paid)
	return header + "\n" + strings.Join(lines, "\n"), nil
}

// payOne is the single logical pay step: it writes the settlement transaction
// first and only then marks the bill paid. When marking fails, the transaction
// is compensated; when compensation also fails, the inconsistency is surfaced
// as a partially-applied fault rather than swallowed.
func (h *Handlers) payOne(ctx context.Context, uc *domain.UserContext, bill *domain.Bill) (string, error) {
	amount := bill.Amount
	txType := domain.CategoryIncome
	verb := "Recebimento"
	if bill.Type == domain.BillPayable {
		amount = -amount
		txType = domain.CategoryExpense
		verb = "Pagamento"
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      uc.UserID,
		Description: fmt.Sprintf("%s: %s", verb, bill.Title),
		Amount:      amount,
		Type:        txType,
		Date:        h.now(),
	}

	if err := h.store.CreateTransaction(ctx, tx); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui registrar o pagamento de %q", bill.Title)
	}

	settled := *bill
	settled.Status = domain.BillPaid
	if err := h.store.UpdateBill(ctx, &settled); err != nil {
		if delErr := h.store.DeleteTransaction(ctx, uc.UserID, tx.ID); delErr != nil {
			h.log.Error().
				Err(err).
				AnErr("compensation_error", delErr).
				Str("bill_id", bill.ID).
				Str("transaction_id", tx.ID).
				Msg("bill payment partially applied: transaction committed but bill not marked paid")
			return "", domain.WrapFault(domain.FaultPartiallyApplied, err,
				"o pagamento de %q foi registrado mas a conta não pôde ser marcada como paga; verifique seus lançamentos", bill.Title)
		}
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui marcar a conta %q como paga", bill.Title)
	}

	msg := fmt.Sprintf("Conta %q paga: R$ %.2f.", bill.Title, bill.Amount)

	if bill.IsRecurring {
		next := h.nextOccurrence(bill)
		if err := h.store.CreateBill(ctx, next); err != nil {
			h.log.Error().Err(err).Str("bill", bill.Title).Msg("failed to roll recurring bill to next occurrence")
			msg += " (atenção: não consegui criar a próxima recorrência)"
		} else {
			msg += fmt.Sprintf(" Próxima recorrência em %s.", next.DueDate.Format("02/01/2006"))
		}
	}

	return msg, nil
}

// nextOccurrence rolls a recurring bill's due date forward by its interval.
func (h *Handlers) nextOccurrence(bill *domain.Bill) *domain.Bill {
	next := *bill
	next.ID = uuid.NewString()
	next.Status = domain.BillPending

	switch bill.RecurringInterval {
	case "weekly":
		next.DueDate = bill.DueDate.AddDate(0, 0, 7)
	case "yearly":
		next.DueDate = bill.DueDate.AddDate(1, 0, 0)
	default:
		next.DueDate = bill.DueDate.AddDate(0, 1, 0)
	}
	return &next
}
