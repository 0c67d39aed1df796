package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"finchat/internal/domain"
)

// CreateCategory creates a category explicitly requested by the user. The
// analyzer guarantees the type was either stated or classified as obvious; a
// payload that still lacks it is a bug state and fails validation instead of
// guessing.
func (h *Handlers) CreateCategory(ctx context.Context, uc *domain.UserContext, act *domain.Action) (string, error) {
	payload, err := domain.DecodePayload[domain.CategoryPayload](*act)
	if err != nil {
		return "", err
	}
	if err := payload.Validate(); err != nil {
		return "", err
	}

	name := strings.TrimSpace(payload.Name)
	for i := range uc.Categories {
		if strings.EqualFold(uc.Categories[i].Name, name) && uc.Categories[i].Type == payload.Type {
			return fmt.Sprintf("A categoria %q já existe.", uc.Categories[i].Name), nil
		}
	}

	category := &domain.Category{
		ID:        uuid.NewString(),
		UserID:    uc.UserID,
		Name:      name,
		Type:      payload.Type,
		Budget:    payload.Budget,
		Color:     payload.Color,
		Icon:      payload.Icon,
		CreatedAt: h.now(),
	}

	if err := h.store.CreateCategory(ctx, category); err != nil {
		return "", domain.WrapFault(domain.FaultPersistence, err, "não consegui criar a categoria %q", name)
	}

	kind := "despesa"
	if payload.Type == domain.CategoryIncome {
		kind = "receita"
	}
	return fmt.Sprintf("Categoria %q criada (%s).", name, kind), nil
}
