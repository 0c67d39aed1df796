// Package actions routes proposed actions to their handlers and applies the
// per-type business rules against the data store.
package actions

import (
	"context"

	"github.com/rs/zerolog"

	"finchat/internal/domain"
)

// HandlerFunc executes one action against the user's financial state and
// returns the user-facing line describing what happened.
type HandlerFunc func(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error)

// ActionFailure records one action that did not execute.
type ActionFailure struct {
	Type domain.ActionType
	Err  error
}

// Outcome aggregates the result of dispatching one analysis.
type Outcome struct {
	Messages []string
	Failures []ActionFailure
	Executed int
}

// Dispatcher routes actions to handlers in the order proposed. Priority is
// advisory metadata only and never reorders execution. A failing action is
// reported and skipped; it does not abort independent sibling actions.
type Dispatcher struct {
	handlers map[domain.ActionType]HandlerFunc
	log      zerolog.Logger
}

// NewDispatcher wires the full handler table.
func NewDispatcher(h *Handlers, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		log: log,
		handlers: map[domain.ActionType]HandlerFunc{
			domain.ActionCreateTransaction: h.CreateTransaction,
			domain.ActionCreateCategory:    h.CreateCategory,
			domain.ActionCreateGoal:        h.CreateGoal,
			domain.ActionUpdateGoal:        h.UpdateGoal,
			domain.ActionCreateBill:        h.CreateBill,
			domain.ActionUpdateBill:        h.UpdateBill,
			domain.ActionDeleteBill:        h.DeleteBill,
			domain.ActionPayBill:           h.PayBill,
			domain.ActionListBills:         h.ListBills,
			domain.ActionFinancialAdvice:   h.FinancialAdvice,
		},
	}
}

// Dispatch runs every proposed action, marking Executed on success and
// collecting per-action failures.
func (d *Dispatcher) Dispatch(ctx context.Context, uc *domain.UserContext, analysis *domain.IntentAnalysis) *Outcome {
	out := &Outcome{}

	for i := range analysis.ProposedActions {
		act := &analysis.ProposedActions[i]

		handler, ok := d.handlers[act.Type]
		if !ok {
			err := domain.Validationf("ação desconhecida: %s", act.Type)
			out.Failures = append(out.Failures, ActionFailure{Type: act.Type, Err: err})
			continue
		}

		msg, err := handler(ctx, uc, act)
		if err != nil {
			act.Executed = false
			d.log.Warn().
				Err(err).
				Str("action", string(act.Type)).
				Str("fault", string(domain.KindOf(err))).
				Msg("action failed")
			out.Failures = append(out.Failures, ActionFailure{Type: act.Type, Err: err})
			continue
		}

		act.Executed = true
		out.Executed++
		if msg != "" {
			out.Messages = append(out.Messages, msg)
		}
	}

	return out
}
