package history

import (
	"fmt"
	"strings"
	"testing"

	"finchat/internal/domain"
)

func TestHistoryNeverExceedsBound(t *testing.T) {
	h := New(10)

	for i := 0; i < 15; i++ {
		h.Append(domain.ConversationTurn{
			Speaker: domain.SpeakerUser,
			Text:    fmt.Sprintf("mensagem %d", i),
		})
	}

	if h.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", h.Len())
	}

	turns := h.Turns()
	if got, want := turns[0].Text, "mensagem 5"; got != want {
		t.Errorf("oldest retained turn = %q, want %q (oldest 5 dropped)", got, want)
	}
	if got, want := turns[9].Text, "mensagem 14"; got != want {
		t.Errorf("newest retained turn = %q, want %q", got, want)
	}
}

func TestHistoryRenderNumbersTurns(t *testing.T) {
	h := New(10)
	h.Append(domain.ConversationTurn{Speaker: domain.SpeakerUser, Text: "oi"})
	h.Append(domain.ConversationTurn{Speaker: domain.SpeakerAgent, Text: "olá"})

	rendered := h.Render()
	if !strings.Contains(rendered, "1. [user] oi") {
		t.Errorf("Render() missing first numbered turn:\n%s", rendered)
	}
	if !strings.Contains(rendered, "2. [agent] olá") {
		t.Errorf("Render() missing second numbered turn:\n%s", rendered)
	}
}

func TestHistoryRenderEmpty(t *testing.T) {
	h := New(10)
	if got := h.Render(); got != "(sem histórico)" {
		t.Errorf("Render() on empty history = %q", got)
	}
}

func TestHistoryTurnsReturnsCopy(t *testing.T) {
	h := New(10)
	h.Append(domain.ConversationTurn{Speaker: domain.SpeakerUser, Text: "original"})

	turns := h.Turns()
	turns[0].Text = "mutated"

	if h.Turns()[0].Text != "original" {
		t.Error("Turns() must return a copy, not the backing slice")
	}
}
