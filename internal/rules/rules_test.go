package rules

import (
	"testing"

	"finchat/internal/domain"
)

func TestIsBillInquiry(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Quais contas eu tenho?", true},
		{"quais contas vencem esse mês", true},
		{"Minhas contas", true},
		{"me mostra as contas pendentes", true},
		{"contas a pagar", true},
		{"Listar contas", true},
		{"Gastei 50 reais no mercado", false},
		{"cria uma meta de 1000 reais", false},
		{"", false},
		// Imperatives that merely mention bills are commands, not inquiries.
		{"paga minhas contas pendentes", false},
		{"Pague todas as minhas contas", false},
		{"quero pagar minhas contas", false},
		{"atualiza minhas contas", false},
		{"exclui a conta de luz das minhas contas", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := IsBillInquiry(tt.message); got != tt.want {
				t.Errorf("IsBillInquiry(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassifyCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		wantType domain.CategoryType
		wantOK   bool
	}{
		{"salário", domain.CategoryIncome, true},
		{"Salario", domain.CategoryIncome, true},
		{"renda extra", domain.CategoryIncome, true},
		{"farmácia", domain.CategoryExpense, true},
		{"Supermercado", domain.CategoryExpense, true},
		{"aluguel", domain.CategoryExpense, true},
		{"jogos", "", false},
		{"viagem", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyCategoryName(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ClassifyCategoryName(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if got != tt.wantType {
				t.Errorf("ClassifyCategoryName(%q) = %q, want %q", tt.name, got, tt.wantType)
			}
		})
	}
}

// "venda" belongs to the income set and "mercado" to the expense set; a name
// hitting both must classify as income because income is checked first.
func TestClassifyIncomeCheckedBeforeExpense(t *testing.T) {
	got, ok := ClassifyCategoryName("venda no mercado")
	if !ok {
		t.Fatal("expected a classification")
	}
	if got != domain.CategoryIncome {
		t.Errorf("got %q, want income (income keywords win)", got)
	}
}
