package actions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"finchat/internal/domain"
)

// CreateGoal creates a savings goal.
func (h *Handlers) CreateGoal(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.GoalCreatePayload](*act)
	if err != nil {
		return "", err
	}
	if err := payload.Validate(); err != nil {
		return "", err
	}

	goal := &domain.Goal{
		ID:            uuid.NewString(),
		UserID:        uc.UserID,
		Title:         payload.Title,
		TargetAmount:  payload.TargetAmount,
		CurrentAmount: payload.CurrentAmount,
		Status:        domain.GoalActive,
	}
	if payload.TargetDate != "" {
		if parsed, perr := domain.ParseISODate(payload.TargetDate); perr == nil {
			goal.TargetDate = &parsed
		}
	}

	if err := h.store.CreateGoal(ctx, goal); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui criar a meta %q", payload.Title)
	}

	return fmt.Sprintf("Meta %q criada: alvo de R$ %.2f.", goal.Title, goal.TargetAmount), nil
}

// UpdateGoal either replaces a goal's target amount or adds a contribution to
// its progress. The payload carries exactly one of the two; an undisambiguated
// payload is a bug state and the handler refuses to guess.
func (h *Handlers) UpdateGoal(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.GoalUpdatePayload](*act)
	if err != nil {
		return "", err
	}
	if err := payload.Validate(); err != nil {
		return "", err
	}

	goal, err := resolveGoal(uc.Goals, payload.GoalID, payload.Title)
	if err != nil {
		return "", err
	}

	updated := *goal
	var msg string
	switch {
	case payload.TargetAmount != nil:
		updated.TargetAmount = *payload.TargetAmount
		msg = fmt.Sprintf("Meta %q atualizada: novo alvo de R$ %.2f.", updated.Title, updated.TargetAmount)
	case payload.Contribution != nil:
		updated.CurrentAmount += *payload.Contribution
		msg = fmt.Sprintf("Aporte de R$ %.2f na meta %q: R$ %.2f de R$ %.2f.",
			*payload.Contribution, updated.Title, updated.CurrentAmount, updated.TargetAmount)
	}

	if updated.CurrentAmount >= updated.TargetAmount && updated.Status == domain.GoalActive {
		updated.Status = domain.GoalCompleted
		msg += " Meta concluída!"
	}

	if err := h.store.UpdateGoal(ctx, &updated); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui atualizar a meta %q", updated.Title)
	}

	return msg, nil
}
