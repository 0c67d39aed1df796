// Package rules is the deterministic layer of intent classification: an
// explicit table of (pattern → classification) pairs evaluated before the
// language-understanding call, with the model as fallback only.
package rules

import (
	"strings"

	"finchat/internal/domain"
)

// billInquiryPatterns are the fixed phrasings that always mean "list my
// bills". They also back the post-model override: when the raw message matches
// one of these and the model produced zero actions, a list_bills action is
// forcibly injected.
var billInquiryPatterns = []string{
	"quais contas",
	"que contas",
	"minhas contas",
	"contas pendentes",
	"contas a pagar",
	"contas a receber",
	"listar contas",
	"mostrar contas",
	"ver contas",
	"contas do mes",
	"contas deste mes",
	"contas vencendo",
}

// incomeKeywords and expenseKeywords back the "obvious category" heuristic:
// a category name matching one of these by substring needs no clarification.
// Income is checked before expense; first match wins.
var incomeKeywords = []string{
	"salario",
	"renda",
	"freela",
	"freelance",
	"rendimento",
	"investimento",
	"dividendo",
	"venda",
	"bonus",
	"comissao",
}

var expenseKeywords = []string{
	"mercado",
	"supermercado",
	"aluguel",
	"farmacia",
	"remedio",
	"luz",
	"agua",
	"internet",
	"telefone",
	"transporte",
	"combustivel",
	"gasolina",
	"comida",
	"restaurante",
	"lanche",
	"escola",
	"faculdade",
	"academia",
	"streaming",
	"assinatura",
}

// actionVerbs are imperative forms that turn a bill-mentioning message into a
// command. A message carrying one of these is never treated as an inquiry,
// even when an inquiry pattern appears as a substring ("paga minhas contas
// pendentes" is a pay command, not a listing request).
var actionVerbs = []string{
	"paga", "pague", "pagar", "quita", "quite", "quitar",
	"cria", "crie", "criar", "adiciona", "adicione", "adicionar",
	"exclui", "exclua", "excluir", "apaga", "apague", "apagar",
	"deleta", "delete", "deletar", "remove", "remova", "remover",
	"atualiza", "atualize", "atualizar", "altera", "altere", "alterar",
	"muda", "mude", "mudar",
}

// IsBillInquiry reports whether the raw message matches one of the fixed
// bill-inquiry phrasings and carries no action verb.
func IsBillInquiry(message string) bool {
	m := normalize(message)

	matched := false
	for _, p := range billInquiryPatterns {
		if strings.Contains(m, p) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	// "a pagar" and "a receber" are noun phrases inside the patterns
	// themselves, not commands.
	scrubbed := strings.NewReplacer("a pagar", "", "a receber", "").Replace(m)
	for _, word := range strings.Fields(scrubbed) {
		for _, v := range actionVerbs {
			if word == v {
				return false
			}
		}
	}
	return true
}

// ClassifyCategoryName resolves an "obvious" category name to its type.
// Returns false when the name hits neither keyword set, meaning the caller
// must ask the user.
func ClassifyCategoryName(name string) (domain.CategoryType, bool) {
	n := normalize(name)
	if n == "" {
		return "", false
	}
	for _, k := range incomeKeywords {
		if strings.Contains(n, k) {
			return domain.CategoryIncome, true
		}
	}
	for _, k := range expenseKeywords {
		if strings.Contains(n, k) {
			return domain.CategoryExpense, true
		}
	}
	return "", false
}

// normalize lowercases and strips the accents that show up in Portuguese
// financial vocabulary, so "salário" and "salario" classify identically.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u", "ü", "u",
		"ç", "c",
	)
	return replacer.Replace(s)
}
