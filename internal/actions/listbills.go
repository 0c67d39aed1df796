package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finchat/internal/domain"
)

// urgency bands for display, derived from days until due.
type urgency int

const (
	urgencyOverdue urgency = iota
	urgencyDueSoon         // due in 3 days or less
	urgencyDueWeek         // due in 7 days or less
	urgencyLater
)

func urgencyOf(dueDate time.Time, now time.Time) urgency {
	days := int(dueDate.Sub(now).Hours() / 24)
	switch {
	case dueDate.Before(now):
		return urgencyOverdue
	case days <= 3:
		return urgencyDueSoon
	case days <= 7:
		return urgencyDueWeek
	default:
		return urgencyLater
	}
}

func (u urgency) label() string {
	switch u {
	case urgencyOverdue:
		return "VENCIDA"
	case urgencyDueSoon:
		return "vence em até 3 dias"
	case urgencyDueWeek:
		return "vence em até 7 dias"
	default:
		return "mais adiante"
	}
}

// ListBills is a pure read: it groups open bills by payable/receivable and by
// recurring/one-off, with an urgency band per bill. It never mutates state.
func (h *Handlers) ListBills(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	if _, err := domain.DecodePayload[domain.ListBillsPayload](*act); err != nil {
		return "", err
	}

	var open []domain.Bill
	for _, b := range uc.Bills {
		if b.Open() {
			open = append(open, b)
		}
	}

	if len(open) == 0 {
		return "Você não tem contas pendentes.", nil
	}

	now := h.now()
	var b strings.Builder
	b.WriteString("Suas contas pendentes:\n")

	writeGroup := func(title string, billType domain.BillType, recurring bool) {
		var lines []string
		for _, bill := range open {
			if bill.Type != billType || bill.IsRecurring != recurring {
				continue
			}
			lines = append(lines, fmt.Sprintf("  - %s: R$ %.2f, vence %s (%s)",
				bill.Title, bill.Amount, bill.DueDate.Format("02/01/2006"), urgencyOf(bill.DueDate, now).label()))
		}
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n" + title + "\n")
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}

	writeGroup("A pagar (recorrentes):", domain.BillPayable, true)
	writeGroup("A pagar (avulsas):", domain.BillPayable, false)
	writeGroup("A receber (recorrentes):", domain.BillReceivable, true)
	writeGroup("A receber (avulsas):", domain.BillReceivable, false)

	return strings.TrimRight(b.String(), "\n"), nil
}
