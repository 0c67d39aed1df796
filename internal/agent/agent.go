// Package agent owns the turn state machine: context snapshot, intent
// analysis, clarification gate, dispatch and the conversation history. Each
// Session belongs to one user and is created by the caller, so concurrent
// sessions for different users never share state.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"finchat/internal/actions"
	"finchat/internal/analyzer"
	"finchat/internal/domain"
	"finchat/internal/history"
	"finchat/internal/store"
)

const (
	genericInterpretationReply = "Desculpe, não consegui entender sua mensagem. Pode reformular?"
	genericTimeoutReply        = "O serviço de interpretação demorou demais para responder. Tente de novo em instantes."
)

// Session processes the chat commands of a single user.
type Session struct {
	userID     string
	store      store.Store
	analyzer   *analyzer.Analyzer
	dispatcher *actions.Dispatcher
	history    *history.History
	log        zerolog.Logger
	timeout    time.Duration
	now        func() time.Time
}

// Option customizes a Session.
type Option func(*Session)

// WithHistorySize bounds the conversation history to n turns.
func WithHistorySize(n int) Option {
	return func(s *Session) { s.history = history.New(n) }
}

// WithTimeout bounds each turn; a stalled external call fails the turn with a
// typed timeout fault instead of hanging.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithClock injects the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession builds the full pipeline for one user on top of the given store
// and language model.
func NewSession(userID string, st store.Store, model analyzer.Model, log zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		userID:     userID,
		store:      st,
		analyzer:   analyzer.New(model, log),
		dispatcher: actions.NewDispatcher(actions.NewHandlers(st, log), log),
		history:    history.New(history.DefaultSize),
		log:        log,
		timeout:    30 * time.Second,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessCommand runs one full turn: load context, analyze, gate on
// clarification, dispatch, aggregate. The history is appended exactly twice,
// after the turn completes. Authentication faults are returned as errors;
// interpretation faults surface a generic reply with the detail logged only.
func (s *Session) ProcessCommand(ctx context.Context, message string) (*domain.Response, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return &domain.Response{Message: "Me diga o que você precisa, por exemplo: \"gastei 50 reais no mercado\"."}, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	uc, err := LoadUserContext(ctx, s.store, s.userID, s.now())
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(ctx, message, uc, s.history.Render())
	if err != nil {
		s.log.Error().Err(err).Str("message", message).Msg("intent analysis failed")
		reply := genericInterpretationReply
		if domain.KindOf(err) == domain.FaultTimeout {
			reply = genericTimeoutReply
		}
		resp := &domain.Response{Message: reply}
		s.remember(message, resp.Message)
		return resp, nil
	}

	if analysis.NeedsClarification {
		resp := &domain.Response{
			Success:               true,
			Message:               analysis.ClarificationQuestion,
			Confidence:            analysis.Confidence,
			Reasoning:             analysis.Reasoning,
			NeedsClarification:    true,
			ClarificationQuestion: analysis.ClarificationQuestion,
		}
		s.remember(message, resp.Message)
		return resp, nil
	}

	outcome := s.dispatcher.Dispatch(ctx, uc, analysis)

	resp := &domain.Response{
		Message:    s.composeMessage(analysis, outcome),
		Actions:    analysis.ProposedActions,
		Confidence: analysis.Confidence,
		Reasoning:  analysis.Reasoning,
	}
	resp.Success = outcome.Executed > 0 ||
		(len(analysis.ProposedActions) == 0 && resp.Message != "")

	s.remember(message, resp.Message)
	return resp, nil
}

// History exposes the retained transcript, mostly for the chat surface.
func (s *Session) History() []domain.ConversationTurn {
	return s.history.Turns()
}

func (s *Session) composeMessage(analysis *domain.IntentAnalysis, outcome *actions.Outcome) string {
	lines := append([]string(nil), outcome.Messages...)
	for _, f := range outcome.Failures {
		lines = append(lines, fmt.Sprintf("Não consegui executar %s: %s.", f.Type, domain.UserMessage(f.Err)))
	}

	if len(lines) == 0 {
		if analysis.Message != "" {
			return analysis.Message
		}
		return "Não identifiquei nenhuma ação para executar. Pode explicar melhor?"
	}
	return strings.Join(lines, "\n")
}

func (s *Session) remember(userText, agentText string) {
	now := s.now()
	s.history.Append(domain.ConversationTurn{Speaker: domain.SpeakerUser, Text: userText, Timestamp: now})
	s.history.Append(domain.ConversationTurn{Speaker: domain.SpeakerAgent, Text: agentText, Timestamp: now})
}
