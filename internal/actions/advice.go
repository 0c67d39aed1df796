package actions

import (
	"context"
	"fmt"
	"strings"

	"finchat/internal/domain"
)

// FinancialAdvice composes a short assessment from the context snapshot. It is
// a pure informational reply; a turn with only this action still counts as
// successful.
func (h *Handlers) FinancialAdvice(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	if _, err := domain.DecodePayload[domain.AdvicePayload](*act); err != nil {
		return "", err
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Seu saldo atual é R$ %.2f.", uc.CurrentBalance))

	if uc.MonthlyIncome > 0 {
		ratio := uc.MonthlyExpenses / uc.MonthlyIncome
		switch {
		case ratio > 1:
			lines = append(lines, fmt.Sprintf(
				"Atenção: este mês você gastou R$ %.2f, mais do que recebeu (R$ %.2f).",
				uc.MonthlyExpenses, uc.MonthlyIncome))
		case ratio > 0.8:
			lines = append(lines, fmt.Sprintf(
				"Seus gastos do mês (R$ %.2f) já passam de 80%% da sua renda (R$ %.2f); vale segurar as despesas variáveis.",
				uc.MonthlyExpenses, uc.MonthlyIncome))
		default:
			lines = append(lines, fmt.Sprintf(
				"Este mês você gastou R$ %.2f de uma renda de R$ %.2f, uma margem saudável.",
				uc.MonthlyExpenses, uc.MonthlyIncome))
		}
	}

	now := h.now()
	dueSoon := 0
	for _, b := range uc.Bills {
		if b.Open() && urgencyOf(b.DueDate, now) <= urgencyDueSoon {
			dueSoon++
		}
	}
	if dueSoon > 0 {
		lines = append(lines, fmt.Sprintf("Você tem %d conta(s) vencida(s) ou vencendo nos próximos 3 dias.", dueSoon))
	}

	for _, g := range uc.Goals {
		if g.Status != domain.GoalActive || g.TargetAmount <= 0 {
			continue
		}
		progress := g.CurrentAmount / g.TargetAmount * 100
		lines = append(lines, fmt.Sprintf("Meta %q: %.0f%% do alvo alcançado.", g.Title, progress))
	}

	return strings.Join(lines, " "), nil
}
