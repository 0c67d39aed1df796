package analyzer

import (
	"fmt"
	"strings"

	"finchat/internal/domain"
)

// systemInstructions tells the model how to interpret a financial command and
// what shape to answer in. The model must return STRICT JSON only.
const systemInstructions = `Você é o interpretador de comandos de um assistente financeiro pessoal.
O usuário escreve em português, em linguagem livre. Sua tarefa é transformar a
mensagem em uma análise estruturada.

Responda SOMENTE com um objeto JSON válido (sem comentários, sem texto extra,
sem cercas de código). O objeto deve ter exatamente estes campos:

{
  "intent": string,
  "confidence": number entre 0 e 1,
  "reasoning": string curta,
  "needs_clarification": boolean,
  "clarification_question": string (apenas quando needs_clarification = true),
  "extracted_data": objeto com os valores extraídos da mensagem,
  "proposed_actions": [ { "type": string, "data": objeto, "priority": number } ],
  "message": string curta de resposta ao usuário
}

Tipos de ação permitidos e os campos de "data" de cada um:
- create_transaction: amount (number > 0), description, category, type ("income"|"expense"), date ("YYYY-MM-DD", opcional)
- create_category: name, type ("income"|"expense"), budget (opcional), color (opcional), icon (opcional)
- create_goal: title, target_amount (number > 0), current_amount (opcional), target_date (opcional)
- update_goal: goal_id ou title, e EXATAMENTE UM entre target_amount (trocar o alvo) ou contribution (aporte ao progresso)
- create_bill: title, amount (number > 0), type ("payable"|"receivable"), due_date ou due_day, is_recurring (opcional), recurring_interval (opcional)
- update_bill: bill_id ou title, e os campos a alterar (new_title, amount, due_date, status)
- delete_bill: bill_id ou title
- pay_bill: bill_id ou title, ou all = true para pagar todas as pendentes
- list_bills: sem campos obrigatórios
- financial_advice: topic (opcional)

Regras obrigatórias:
1. REUTILIZE valores já informados em turnos anteriores da conversa. Se o
   usuário disse um valor dois turnos atrás e agora diz "sim, pode criar",
   carregue o valor adiante em vez de perguntar de novo.
2. Criação de categoria sem indicação de receita/despesa: peça esclarecimento,
   a menos que o nome torne o tipo óbvio (ex.: "salário" é receita, "mercado"
   é despesa).
3. Criação de conta sem valor numérico: SEMPRE peça esclarecimento perguntando
   o valor.
4. Alteração de meta sem deixar claro se é trocar o alvo ou adicionar aporte:
   SEMPRE peça esclarecimento. As duas operações são destrutivas de formas
   diferentes.
5. Quando needs_clarification = true, proposed_actions deve ser uma lista vazia.
6. Valores monetários em "amount" são sempre positivos; o sinal é decidido pelo
   sistema, não por você.
7. Use os nomes de categorias, contas e metas existentes no contexto quando a
   mensagem se referir a eles.`

// buildPrompt assembles the grounded user prompt: financial snapshot, the
// numbered conversation transcript and the new message.
func buildPrompt(uc *domain.UserContext, transcript, message string) string {
	var b strings.Builder

	b.WriteString("CONTEXTO FINANCEIRO DO USUÁRIO:\n")
	fmt.Fprintf(&b, "- Saldo atual: R$ %.2f\n", uc.CurrentBalance)
	fmt.Fprintf(&b, "- Receitas do mês: R$ %.2f\n", uc.MonthlyIncome)
	fmt.Fprintf(&b, "- Despesas do mês: R$ %.2f\n", uc.MonthlyExpenses)

	b.WriteString("\nCategorias existentes:\n")
	if len(uc.Categories) == 0 {
		b.WriteString("  (nenhuma)\n")
	}
	for _, c := range uc.Categories {
		fmt.Fprintf(&b, "  - %s (%s)\n", c.Name, c.Type)
	}

	b.WriteString("\nTransações recentes:\n")
	if len(uc.RecentTransactions) == 0 {
		b.WriteString("  (nenhuma)\n")
	}
	for _, t := range uc.RecentTransactions {
		fmt.Fprintf(&b, "  - %s: R$ %.2f (%s)\n", t.Description, t.Amount, t.Date.Format("2006-01-02"))
	}

	b.WriteString("\nMetas:\n")
	if len(uc.Goals) == 0 {
		b.WriteString("  (nenhuma)\n")
	}
	for _, g := range uc.Goals {
		fmt.Fprintf(&b, "  - %s: R$ %.2f de R$ %.2f (%s)\n", g.Title, g.CurrentAmount, g.TargetAmount, g.Status)
	}

	b.WriteString("\nContas:\n")
	if len(uc.Bills) == 0 {
		b.WriteString("  (nenhuma)\n")
	}
	for _, bill := range uc.Bills {
		fmt.Fprintf(&b, "  - %s: R$ %.2f (%s, vence %s, %s)\n",
			bill.Title, bill.Amount, bill.Type, bill.DueDate.Format("2006-01-02"), bill.Status)
	}

	b.WriteString("\nHISTÓRICO DA CONVERSA:\n")
	b.WriteString(transcript)

	b.WriteString("\nMENSAGEM DO USUÁRIO:\n")
	b.WriteString(message)
	b.WriteString("\n\nResponda com o objeto JSON da análise.")

	return b.String()
}
