package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"finchat/internal/domain"
	"finchat/internal/logger"
	"finchat/internal/store"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeModel struct {
	response string
	err      error
	called   bool
}

func (f *fakeModel) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	f.called = true
	return f.response, f.err
}

func seedUser(t *testing.T, st store.Store) {
	t.Helper()
	err := st.CreateUser(context.Background(), &domain.User{ID: "u1", Name: "Demo"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
}

func newTestSession(st store.Store, model *fakeModel) *Session {
	return NewSession("u1", st, model, logger.Nop(),
		WithClock(func() time.Time { return fixedNow }))
}

func TestProcessCommandFullTurn(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)
	if err := st.CreateCategory(context.Background(), &domain.Category{
		ID: "c1", UserID: "u1", Name: "Alimentação", Type: domain.CategoryExpense,
	}); err != nil {
		t.Fatal(err)
	}

	model := &fakeModel{response: `{
		"intent": "create_transaction",
		"confidence": 0.95,
		"reasoning": "usuário relatou um gasto",
		"needs_clarification": false,
		"proposed_actions": [
			{"type": "create_transaction", "data": {"amount": 120, "description": "Supermercado", "category": "Alimentação", "type": "expense"}}
		]
	}`}

	s := newTestSession(st, model)
	resp, err := s.ProcessCommand(context.Background(), "Gastei 120 reais no supermercado")
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if !strings.Contains(resp.Message, "120") || !strings.Contains(resp.Message, "Alimentação") {
		t.Errorf("message should mention the amount and the category: %q", resp.Message)
	}

	txs, _ := st.ListRecentTransactions(context.Background(), "u1", 10)
	if len(txs) != 1 || txs[0].Amount != -120 {
		t.Fatalf("expected one -120 expense, got %+v", txs)
	}

	turns := s.History()
	if len(turns) != 2 {
		t.Fatalf("len(history) = %d, want exactly 2 turns per command", len(turns))
	}
	if turns[0].Speaker != domain.SpeakerUser || turns[1].Speaker != domain.SpeakerAgent {
		t.Errorf("history speakers = %q, %q", turns[0].Speaker, turns[1].Speaker)
	}
}

func TestProcessCommandClarificationExecutesNothing(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)

	model := &fakeModel{response: `{
		"intent": "create_bill",
		"confidence": 0.6,
		"reasoning": "",
		"needs_clarification": true,
		"clarification_question": "Qual é o valor da conta?",
		"proposed_actions": []
	}`}

	s := newTestSession(st, model)
	resp, err := s.ProcessCommand(context.Background(), "cria uma conta de luz")
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}

	if !resp.Success || !resp.NeedsClarification {
		t.Errorf("resp = %+v, want a successful clarifying turn", resp)
	}
	if resp.Message != "Qual é o valor da conta?" {
		t.Errorf("message = %q, want the clarification question", resp.Message)
	}

	if bills, _ := st.ListBills(context.Background(), "u1"); len(bills) != 0 {
		t.Error("a clarifying turn must not touch the store")
	}
	if len(s.History()) != 2 {
		t.Error("a clarifying turn is still remembered")
	}
}

func TestProcessCommandInterpretationFailureGenericReply(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)

	model := &fakeModel{response: "não é json"}

	s := newTestSession(st, model)
	resp, err := s.ProcessCommand(context.Background(), "faz alguma coisa")
	if err != nil {
		t.Fatalf("an interpretation failure must not surface as an error, got %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Message != genericInterpretationReply {
		t.Errorf("message = %q, want the generic reply (detail stays in the log)", resp.Message)
	}
	if len(s.History()) != 2 {
		t.Error("a failed turn is still remembered")
	}
}

func TestProcessCommandTimeoutReply(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)

	model := &fakeModel{err: context.DeadlineExceeded}

	s := newTestSession(st, model)
	resp, err := s.ProcessCommand(context.Background(), "faz alguma coisa")
	if err != nil {
		t.Fatalf("a timeout must not surface as an error, got %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Message != genericTimeoutReply {
		t.Errorf("message = %q, want the timeout reply, not the interpretation one", resp.Message)
	}
	if len(s.History()) != 2 {
		t.Error("a timed-out turn is still remembered")
	}
}

func TestProcessCommandUnknownUser(t *testing.T) {
	s := newTestSession(store.NewMemory(), &fakeModel{})

	_, err := s.ProcessCommand(context.Background(), "oi")
	if domain.KindOf(err) != domain.FaultUnauthenticated {
		t.Fatalf("fault kind = %q, want unauthenticated (err = %v)", domain.KindOf(err), err)
	}
}

func TestProcessCommandEmptyMessage(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)
	model := &fakeModel{}

	s := newTestSession(st, model)
	resp, err := s.ProcessCommand(context.Background(), "   ")
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}
	if resp.Message == "" {
		t.Error("an empty command should get a usage hint")
	}
	if model.called {
		t.Error("an empty command must not reach the model")
	}
}

func TestProcessCommandBillInquirySkipsModel(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)
	if err := st.CreateBill(context.Background(), &domain.Bill{
		ID: "b1", UserID: "u1", Title: "Conta de luz", Amount: 150,
		Type: domain.BillPayable, DueDate: fixedNow.AddDate(0, 0, 5), Status: domain.BillPending,
	}); err != nil {
		t.Fatal(err)
	}

	model := &fakeModel{response: "ignored"}
	s := newTestSession(st, model)

	resp, err := s.ProcessCommand(context.Background(), "Quais contas eu tenho?")
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}
	if model.called {
		t.Error("a bill inquiry must resolve from the rules table, not the model")
	}
	if !resp.Success || !strings.Contains(resp.Message, "Conta de luz") {
		t.Errorf("response = %+v", resp)
	}
}

func TestProcessCommandFailureLinesInMessage(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)

	model := &fakeModel{response: `{
		"intent": "pay_bill",
		"confidence": 0.9,
		"reasoning": "",
		"needs_clarification": false,
		"proposed_actions": [{"type": "pay_bill", "data": {"title": "cartão"}}]
	}`}

	s := newTestSession(st, model)
	resp, err := s.ProcessCommand(context.Background(), "paga o cartão")
	if err != nil {
		t.Fatalf("ProcessCommand() error = %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false when nothing executed")
	}
	if !strings.Contains(resp.Message, "Não consegui executar pay_bill") {
		t.Errorf("message should carry the per-action failure: %q", resp.Message)
	}
}

func TestLoadUserContext(t *testing.T) {
	st := store.NewMemory()
	seedUser(t, st)

	ctx := context.Background()
	for _, tx := range []domain.Transaction{
		{ID: "t1", UserID: "u1", Description: "Salário", Amount: 3000, Type: domain.CategoryIncome, Date: fixedNow.AddDate(0, 0, -5)},
		{ID: "t2", UserID: "u1", Description: "Mercado", Amount: -400, Type: domain.CategoryExpense, Date: fixedNow.AddDate(0, 0, -3)},
		{ID: "t3", UserID: "u1", Description: "Mês passado", Amount: -999, Type: domain.CategoryExpense, Date: fixedNow.AddDate(0, -1, 0)},
	} {
		tx := tx
		if err := st.CreateTransaction(ctx, &tx); err != nil {
			t.Fatal(err)
		}
	}

	uc, err := LoadUserContext(ctx, st, "u1", fixedNow)
	if err != nil {
		t.Fatalf("LoadUserContext() error = %v", err)
	}

	if uc.CurrentBalance != 3000-400-999 {
		t.Errorf("CurrentBalance = %.2f, want the all-time sum", uc.CurrentBalance)
	}
	if uc.MonthlyIncome != 3000 {
		t.Errorf("MonthlyIncome = %.2f, want 3000", uc.MonthlyIncome)
	}
	if uc.MonthlyExpenses != 400 {
		t.Errorf("MonthlyExpenses = %.2f, want only this month's 400", uc.MonthlyExpenses)
	}
}

func TestMonthlyTotals(t *testing.T) {
	transactions := []domain.Transaction{
		{Amount: 3000, Type: domain.CategoryIncome, Date: fixedNow},
		{Amount: -120, Type: domain.CategoryExpense, Date: fixedNow.AddDate(0, 0, -1)},
		{Amount: -80, Type: domain.CategoryExpense, Date: fixedNow.AddDate(0, -1, 0)},
		{Amount: 500, Type: domain.CategoryIncome, Date: fixedNow.AddDate(0, 1, 0)},
	}

	income, expenses := monthlyTotals(transactions, fixedNow)
	if income != 3000 {
		t.Errorf("income = %.2f, want 3000 (other months excluded)", income)
	}
	if expenses != 120 {
		t.Errorf("expenses = %.2f, want 120", expenses)
	}
}
