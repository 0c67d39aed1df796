// Package history keeps the bounded conversation transcript used to ground
// interpretation across turns. It participates only as input context, never as
// a source of truth for committed state.
package history

import (
	"fmt"
	"strings"
	"time"

	"finchat/internal/domain"
)

// DefaultSize is the number of turns retained when none is configured.
const DefaultSize = 10

// History is an ordered log of recent conversation turns, truncated to the
// most recent max entries on write (oldest dropped first). It is mutated by
// exactly one writer, the turn handler, and needs no locking.
type History struct {
	max   int
	turns []domain.ConversationTurn
}

// New creates a history bounded to max turns.
func New(max int) *History {
	if max < 1 {
		max = DefaultSize
	}
	return &History{max: max}
}

// Append records a turn, evicting the oldest entry on overflow.
func (h *History) Append(turn domain.ConversationTurn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	h.turns = append(h.turns, turn)
	if len(h.turns) > h.max {
		h.turns = h.turns[len(h.turns)-h.max:]
	}
}

// Len returns the number of retained turns.
func (h *History) Len() int { return len(h.turns) }

// Turns returns a copy of the retained turns in order.
func (h *History) Turns() []domain.ConversationTurn {
	out := make([]domain.ConversationTurn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Render produces an ordered, numbered transcript for prompt grounding.
func (h *History) Render() string {
	if len(h.turns) == 0 {
		return "(sem histórico)"
	}
	var b strings.Builder
	for i, t := range h.turns {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, t.Speaker, t.Text)
	}
	return b.String()
}
