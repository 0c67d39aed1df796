// Package analyzer turns a free-text financial command into a structured
// IntentAnalysis. Deterministic rules run first; the language model is the
// fallback for everything the rules table does not cover.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"finchat/internal/domain"
	"finchat/internal/rules"
)

// Analyzer interprets user messages against the financial context and the
// conversation transcript.
type Analyzer struct {
	model Model
	log   zerolog.Logger
}

// New creates an analyzer backed by the given model.
func New(model Model, log zerolog.Logger) *Analyzer {
	return &Analyzer{model: model, log: log}
}

// Analyze classifies the message. Bill-inquiry phrasings resolve without a
// model call; everything else goes through the model and then the policy and
// override passes.
func (a *Analyzer) Analyze(ctx context.Context, message string, uc *domain.UserContext, transcript string) (*domain.IntentAnalysis, error) {
	if rules.IsBillInquiry(message) {
		return billInquiryAnalysis(), nil
	}

	prompt := buildPrompt(uc, transcript, message)

	raw, err := a.model.GenerateJSON(ctx, systemInstructions, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, domain.WrapFault(domain.FaultTimeout, err, "o serviço de interpretação demorou demais para responder")
		}
		return nil, domain.WrapFault(domain.FaultInterpretation, err, "não foi possível interpretar a mensagem")
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		a.log.Error().Err(err).Str("raw_response", raw).Msg("model returned malformed analysis")
		return nil, domain.WrapFault(domain.FaultInterpretation, err, "não foi possível interpretar a mensagem")
	}

	a.applyPolicy(analysis)
	applyBillInquiryOverride(message, analysis)

	return analysis, nil
}

// parseAnalysis decodes the model output as a single JSON object. Non-JSON or
// missing-field responses are a hard failure; no partial parse is attempted.
func parseAnalysis(raw string) (*domain.IntentAnalysis, error) {
	clean := cleanModelJSON(raw)

	var analysis domain.IntentAnalysis
	if err := json.Unmarshal([]byte(clean), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}

	if analysis.Intent == "" {
		return nil, fmt.Errorf("analysis is missing the intent field")
	}
	if analysis.Confidence < 0 || analysis.Confidence > 1 {
		return nil, fmt.Errorf("confidence %.2f outside [0,1]", analysis.Confidence)
	}
	for _, act := range analysis.ProposedActions {
		if !domain.KnownActionType(act.Type) {
			return nil, fmt.Errorf("unknown action type %q", act.Type)
		}
		if act.Executed {
			return nil, fmt.Errorf("analyzer must not set executed on action %s", act.Type)
		}
	}

	return &analysis, nil
}

// applyPolicy enforces the ambiguity rules the model is instructed to follow,
// so a drifting model cannot push an under-specified action into a handler.
func (a *Analyzer) applyPolicy(analysis *domain.IntentAnalysis) {
	if analysis.NeedsClarification {
		analysis.ProposedActions = nil
		if analysis.ClarificationQuestion == "" {
			analysis.ClarificationQuestion = "Pode me dar mais detalhes sobre o que você quer fazer?"
		}
		return
	}

	var kept []domain.Action
	for _, act := range analysis.ProposedActions {
		switch act.Type {
		case domain.ActionCreateCategory:
			payload, err := domain.DecodePayload[domain.CategoryPayload](act)
			if err != nil {
				a.clarify(analysis, "Não entendi os dados da categoria. Pode repetir?")
				return
			}
			if payload.Type == "" {
				t, ok := rules.ClassifyCategoryName(payload.Name)
				if !ok {
					a.clarify(analysis, fmt.Sprintf("A categoria %q é de receita ou de despesa?", payload.Name))
					return
				}
				payload.Type = t
				priority := act.Priority
				if act, err = domain.EncodePayload(act.Type, payload); err != nil {
					a.clarify(analysis, "Não entendi os dados da categoria. Pode repetir?")
					return
				}
				act.Priority = priority
			}

		case domain.ActionCreateBill:
			payload, err := domain.DecodePayload[domain.BillCreatePayload](act)
			if err != nil || payload.Amount <= 0 {
				title := payload.Title
				if title == "" {
					title = "essa conta"
				}
				a.clarify(analysis, fmt.Sprintf("Qual é o valor de %s?", title))
				return
			}

		case domain.ActionUpdateGoal:
			payload, err := domain.DecodePayload[domain.GoalUpdatePayload](act)
			if err != nil || (payload.TargetAmount == nil && payload.Contribution == nil) ||
				(payload.TargetAmount != nil && payload.Contribution != nil) {
				a.clarify(analysis, "Você quer alterar o valor alvo da meta ou adicionar um aporte ao progresso?")
				return
			}
		}
		kept = append(kept, act)
	}
	analysis.ProposedActions = kept
}

func (a *Analyzer) clarify(analysis *domain.IntentAnalysis, question string) {
	analysis.NeedsClarification = true
	analysis.ClarificationQuestion = question
	analysis.ProposedActions = nil
}

// applyBillInquiryOverride is the safety net against model drift: when the raw
// message matches a fixed bill-inquiry phrasing and the model produced zero
// actions, a list_bills action is forcibly injected. The override always wins.
func applyBillInquiryOverride(message string, analysis *domain.IntentAnalysis) {
	if !rules.IsBillInquiry(message) {
		return
	}
	if len(analysis.ProposedActions) > 0 {
		return
	}
	analysis.Intent = "list_bills"
	analysis.NeedsClarification = false
	analysis.ClarificationQuestion = ""
	analysis.ProposedActions = []domain.Action{{
		Type: domain.ActionListBills,
		Data: json.RawMessage(`{}`),
	}}
}

// billInquiryAnalysis is the deterministic result for messages the rules table
// resolves without consulting the model.
func billInquiryAnalysis() *domain.IntentAnalysis {
	return &domain.IntentAnalysis{
		Intent:     "list_bills",
		Confidence: 1.0,
		Reasoning:  "mensagem corresponde a uma consulta de contas conhecida",
		ProposedActions: []domain.Action{{
			Type: domain.ActionListBills,
			Data: json.RawMessage(`{}`),
		}},
	}
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the strict-JSON instructions, keeping the outermost object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
