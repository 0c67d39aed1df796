package actions

import (
	"strings"

	"finchat/internal/domain"
)

// resolveBill finds a bill by explicit id, then by exact case-insensitive
// title, then by substring. Zero matches yield a not-found fault echoing the
// user's query; more than one equally-good match yields an ambiguous-match
// fault listing the candidates instead of guessing.
func resolveBill(bills []domain.Bill, id, query string) (*domain.Bill, error) {
	if id != "" {
		for i := range bills {
			if bills[i].ID == id {
				return &bills[i], nil
			}
		}
		return nil, domain.NotFoundf("não encontrei nenhuma conta com id %q", id)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, domain.NotFoundf("nenhuma conta foi identificada")
	}

	var exact, partial []*domain.Bill
	for i := range bills {
		title := strings.ToLower(bills[i].Title)
		switch {
		case title == q:
			exact = append(exact, &bills[i])
		case strings.Contains(title, q):
			partial = append(partial, &bills[i])
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}

	switch len(matches) {
	case 0:
		return nil, domain.NotFoundf("não encontrei nenhuma conta parecida com %q", query)
	case 1:
		return matches[0], nil
	default:
		return nil, domain.NewFault(domain.FaultAmbiguousMatch,
			"encontrei mais de uma conta para %q: %s; qual delas?", query, titlesOf(matches))
	}
}

// resolveGoal mirrors resolveBill for savings goals.
func resolveGoal(goals []domain.Goal, id, query string) (*domain.Goal, error) {
	if id != "" {
		for i := range goals {
			if goals[i].ID == id {
				return &goals[i], nil
			}
		}
		return nil, domain.NotFoundf("não encontrei nenhuma meta com id %q", id)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, domain.NotFoundf("nenhuma meta foi identificada")
	}

	var exact, partial []*domain.Goal
	for i := range goals {
		title := strings.ToLower(goals[i].Title)
		switch {
		case title == q:
			exact = append(exact, &goals[i])
		case strings.Contains(title, q):
			partial = append(partial, &goals[i])
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}

	switch len(matches) {
	case 0:
		return nil, domain.NotFoundf("não encontrei nenhuma meta parecida com %q", query)
	case 1:
		return matches[0], nil
	default:
		var titles []string
		for _, g := range matches {
			titles = append(titles, g.Title)
		}
		return nil, domain.NewFault(domain.FaultAmbiguousMatch,
			"encontrei mais de uma meta para %q: %s; qual delas?", query, strings.Join(titles, ", "))
	}
}

// findCategory matches a category by substring on name plus matching type.
func findCategory(categories []domain.Category, name string, t domain.CategoryType) (*domain.Category, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil, false
	}
	for i := range categories {
		if categories[i].Type != t {
			continue
		}
		n := strings.ToLower(categories[i].Name)
		if n == q || strings.Contains(n, q) || strings.Contains(q, n) {
			return &categories[i], true
		}
	}
	return nil, false
}

// nearestOpenBill picks the open bill with the nearest due date, used by
// pay_bill when the user gave no identifier at all.
func nearestOpenBill(bills []domain.Bill) *domain.Bill {
	var nearest *domain.Bill
	for i := range bills {
		if !bills[i].Open() {
			continue
		}
		if nearest == nil || bills[i].DueDate.Before(nearest.DueDate) {
			nearest = &bills[i]
		}
	}
	return nearest
}

func titlesOf(bills []*domain.Bill) string {
	var titles []string
	for _, b := range bills {
		titles = append(titles, b.Title)
	}
	return strings.Join(titles, ", ")
}
