package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ActionType enumerates the mutations and queries the assistant can perform.
type ActionType string

const (
	ActionCreateTransaction ActionType = "create_transaction"
	ActionCreateCategory    ActionType = "create_category"
	ActionCreateGoal        ActionType = "create_goal"
	ActionUpdateGoal        ActionType = "update_goal"
	ActionCreateBill        ActionType = "create_bill"
	ActionUpdateBill        ActionType = "update_bill"
	ActionDeleteBill        ActionType = "delete_bill"
	ActionPayBill           ActionType = "pay_bill"
	ActionListBills         ActionType = "list_bills"
	ActionFinancialAdvice   ActionType = "financial_advice"
)

// KnownActionType reports whether t is one of the supported action types.
func KnownActionType(t ActionType) bool {
	switch t {
	case ActionCreateTransaction, ActionCreateCategory, ActionCreateGoal,
		ActionUpdateGoal, ActionCreateBill, ActionUpdateBill, ActionDeleteBill,
		ActionPayBill, ActionListBills, ActionFinancialAdvice:
		return true
	}
	return false
}

// Action is one proposed operation. Data stays raw on the wire and is decoded
// into the typed payload for its action type before a handler runs, so a
// handler can never be invoked with a payload shape it does not expect.
// Executed is set by the dispatcher after the handler runs, never by the
// analyzer.
type Action struct {
	Type     ActionType      `json:"type"`
	Data     json.RawMessage `json:"data"`
	Priority int             `json:"priority"`
	Executed bool            `json:"executed"`
}

// IntentAnalysis is the structured result of interpreting one user message.
type IntentAnalysis struct {
	Intent                string         `json:"intent"`
	Confidence            float64        `json:"confidence"`
	Reasoning             string         `json:"reasoning"`
	NeedsClarification    bool           `json:"needs_clarification"`
	ClarificationQuestion string         `json:"clarification_question,omitempty"`
	ExtractedData         map[string]any `json:"extracted_data,omitempty"`
	ProposedActions       []Action       `json:"proposed_actions"`
	Message               string         `json:"message,omitempty"`
}

// Response is the turn-level result returned to the chat surface. It is the
// only contract the UI layer depends on.
type Response struct {
	Success               bool
	Message               string
	Actions               []Action
	Confidence            float64
	Reasoning             string
	NeedsClarification    bool
	ClarificationQuestion string
}

// TransactionPayload carries the slots for create_transaction.
type TransactionPayload struct {
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Type        CategoryType `json:"type"`
	Date        string       `json:"date,omitempty"`
}

func (p TransactionPayload) Validate() error {
	if p.Amount <= 0 {
		return Validationf("valor da transação deve ser maior que zero")
	}
	if strings.TrimSpace(p.Description) == "" {
		return Validationf("descrição da transação é obrigatória")
	}
	if p.Type != CategoryIncome && p.Type != CategoryExpense {
		return Validationf("tipo da transação deve ser income ou expense")
	}
	return nil
}

// CategoryPayload carries the slots for create_category.
type CategoryPayload struct {
	Name   string       `json:"name"`
	Type   CategoryType `json:"type"`
	Budget float64      `json:"budget,omitempty"`
	Color  string       `json:"color,omitempty"`
	Icon   string       `json:"icon,omitempty"`
}

func (p CategoryPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("nome da categoria é obrigatório")
	}
	if p.Type != CategoryIncome && p.Type != CategoryExpense {
		return Validationf("tipo da categoria %q não foi definido", p.Name)
	}
	if p.Budget < 0 {
		return Validationf("orçamento da categoria não pode ser negativo")
	}
	return nil
}

// GoalCreatePayload carries the slots for create_goal.
type GoalCreatePayload struct {
	Title         string  `json:"title"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount,omitempty"`
	TargetDate    string  `json:"target_date,omitempty"`
}

func (p GoalCreatePayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return Validationf("título da meta é obrigatório")
	}
	if p.TargetAmount <= 0 {
		return Validationf("valor alvo da meta deve ser maior que zero")
	}
	return nil
}

// GoalUpdatePayload carries the slots for update_goal. Exactly one of
// TargetAmount (replace the target) or Contribution (add to progress) must be
// set; the two operations are destructive in different ways and are never
// conflated.
type GoalUpdatePayload struct {
	GoalID       string   `json:"goal_id,omitempty"`
	Title        string   `json:"title,omitempty"`
	TargetAmount *float64 `json:"target_amount,omitempty"`
	Contribution *float64 `json:"contribution,omitempty"`
}

func (p GoalUpdatePayload) Validate() error {
	if p.GoalID == "" && strings.TrimSpace(p.Title) == "" {
		return Validationf("meta não foi identificada")
	}
	if p.TargetAmount == nil && p.Contribution == nil {
		return Validationf("não ficou claro se é para alterar o alvo ou adicionar um aporte")
	}
	if p.TargetAmount != nil && p.Contribution != nil {
		return Validationf("alterar o alvo e adicionar aporte não podem acontecer na mesma ação")
	}
	if p.TargetAmount != nil && *p.TargetAmount <= 0 {
		return Validationf("novo valor alvo deve ser maior que zero")
	}
	if p.Contribution != nil && *p.Contribution <= 0 {
		return Validationf("valor do aporte deve ser maior que zero")
	}
	return nil
}

// BillCreatePayload carries the slots for create_bill. Exactly one of DueDate
// (ISO date) or DueDay (day of month) may be given; with neither, the due date
// defaults to thirty days out.
type BillCreatePayload struct {
	Title             string   `json:"title"`
	Amount            float64  `json:"amount"`
	Type              BillType `json:"type,omitempty"`
	DueDate           string   `json:"due_date,omitempty"`
	DueDay            int      `json:"due_day,omitempty"`
	IsRecurring       *bool    `json:"is_recurring,omitempty"`
	RecurringInterval string   `json:"recurring_interval,omitempty"`
}

func (p BillCreatePayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return Validationf("título da conta é obrigatório")
	}
	if p.Amount <= 0 {
		return Validationf("valor da conta deve ser maior que zero")
	}
	if p.DueDay < 0 || p.DueDay > 31 {
		return Validationf("dia de vencimento %d inválido", p.DueDay)
	}
	return nil
}

// BillUpdatePayload carries the slots for update_bill. BillID or Title
// identifies the bill; the remaining fields are applied when present.
type BillUpdatePayload struct {
	BillID   string   `json:"bill_id,omitempty"`
	Title    string   `json:"title,omitempty"`
	NewTitle string   `json:"new_title,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	DueDate  string   `json:"due_date,omitempty"`
	Status   string   `json:"status,omitempty"`
}

func (p BillUpdatePayload) Validate() error {
	if p.BillID == "" && strings.TrimSpace(p.Title) == "" {
		return Validationf("conta não foi identificada")
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return Validationf("novo valor da conta deve ser maior que zero")
	}
	return nil
}

// BillDeletePayload carries the slots for delete_bill.
type BillDeletePayload struct {
	BillID string `json:"bill_id,omitempty"`
	Title  string `json:"title,omitempty"`
}

func (p BillDeletePayload) Validate() error {
	if p.BillID == "" && strings.TrimSpace(p.Title) == "" {
		return Validationf("conta não foi identificada")
	}
	return nil
}

// PayBillPayload carries the slots for pay_bill. With All set, every open bill
// is settled. With no identifier at all, the open bill with the nearest due
// date is selected.
type PayBillPayload struct {
	BillID string `json:"bill_id,omitempty"`
	Title  string `json:"title,omitempty"`
	All    bool   `json:"all,omitempty"`
}

func (p PayBillPayload) Validate() error { return nil }

// ListBillsPayload carries the (optional) slots for list_bills.
type ListBillsPayload struct {
	Status string `json:"status,omitempty"`
}

func (p ListBillsPayload) Validate() error { return nil }

// AdvicePayload carries the slots for financial_advice.
type AdvicePayload struct {
	Topic string `json:"topic,omitempty"`
}

func (p AdvicePayload) Validate() error { return nil }

// DecodePayload unmarshals an action's raw data into the typed payload for its
// action type. An empty data object decodes to the payload's zero value.
func DecodePayload[T any](a Action) (T, error) {
	var payload T
	if len(a.Data) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(a.Data, &payload); err != nil {
		return payload, Validationf("dados da ação %s inválidos: %v", a.Type, err)
	}
	return payload, nil
}

// EncodePayload builds an Action carrying the given payload, used by the
// deterministic rules path and by tests.
func EncodePayload(t ActionType, payload any) (Action, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Action{}, fmt.Errorf("encode payload for %s: %w", t, err)
	}
	return Action{Type: t, Data: raw}, nil
}

// ParseISODate parses the YYYY-MM-DD format the analyzer is instructed to use.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
