package domain

import "time"

// UserContext is the snapshot of a user's financial state used to ground
// interpretation. It is rebuilt at the start of every command and is read-only
// within a turn.
type UserContext struct {
	UserID             string
	CurrentBalance     float64
	MonthlyIncome      float64
	MonthlyExpenses    float64
	Categories         []Category
	RecentTransactions []Transaction
	Goals              []Goal
	Bills              []Bill
}

// Speaker tags who produced a conversation turn.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// ConversationTurn is one utterance in the session transcript.
type ConversationTurn struct {
	Speaker   Speaker
	Text      string
	Timestamp time.Time
}
