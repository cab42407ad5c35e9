// Package tutor implements the conversational engineering tutor. A Tutor owns
// one session's transcript and is not safe for concurrent use.
package tutor

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/enge-ai/enge/critical"
	"github.com/ZanzyTHEbar/enge-ai/enge/generation"
	"github.com/ZanzyTHEbar/enge-ai/enge/prompts"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tutor answers student questions over a running transcript.
type Tutor struct {
	gateway   generation.Completer
	logger    zerolog.Logger
	sessionID string

	defaultMode     prompts.Mode
	defaultCritical bool

	transcript []generation.Turn
}

// Option configures a Tutor.
type Option func(*Tutor)

func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tutor) { t.logger = logger }
}

// WithDefaults sets the mode and critical-thinking flag used when
// AnswerQuestion is called without overrides.
func WithDefaults(mode prompts.Mode, includeCriticalThinking bool) Option {
	return func(t *Tutor) {
		t.defaultMode = mode
		t.defaultCritical = includeCriticalThinking
	}
}

// New creates a Tutor with an empty transcript.
func New(gateway generation.Completer, opts ...Option) *Tutor {
	t := &Tutor{
		gateway:         gateway,
		logger:          zerolog.Nop(),
		sessionID:       uuid.NewString(),
		defaultMode:     prompts.ModeGeneral,
		defaultCritical: true,
		transcript:      []generation.Turn{},
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With().Str("session", t.sessionID).Logger()
	return t
}

// SessionID identifies this tutoring session in logs.
func (t *Tutor) SessionID() string { return t.sessionID }

type answerConfig struct {
	mode     prompts.Mode
	critical bool
}

// AnswerOption overrides per-question behaviour.
type AnswerOption func(*answerConfig)

// WithMode selects the interaction mode for one question.
func WithMode(m prompts.Mode) AnswerOption {
	return func(c *answerConfig) { c.mode = m }
}

// WithCriticalThinking toggles the critical-thinking enhancement.
func WithCriticalThinking(include bool) AnswerOption {
	return func(c *answerConfig) { c.critical = include }
}

// SystemPrompt composes the system prompt for mode, appending the
// critical-thinking enhancement unless the mode already centres on it.
func SystemPrompt(mode prompts.Mode, includeCriticalThinking bool) string {
	system := prompts.SystemPrompt(mode)
	if includeCriticalThinking && mode != prompts.ModeCriticalThinking {
		system = system + "\n\n" + critical.EnhancementPrompt()
	}
	return system
}

// AnswerQuestion records question, asks the model with the full transcript
// and records the reply. Exactly two turns are appended per call, whatever
// the gateway returns.
func (t *Tutor) AnswerQuestion(ctx context.Context, question string, opts ...AnswerOption) string {
	cfg := answerConfig{mode: t.defaultMode, critical: t.defaultCritical}
	for _, opt := range opts {
		opt(&cfg)
	}

	t.transcript = append(t.transcript, generation.Turn{Role: generation.RoleUser, Content: question})

	messages := make([]generation.Turn, 0, len(t.transcript)+1)
	messages = append(messages, generation.Turn{
		Role:    generation.RoleSystem,
		Content: SystemPrompt(cfg.mode, cfg.critical),
	})
	messages = append(messages, t.transcript...)

	t.logger.Debug().
		Str("mode", cfg.mode.String()).
		Bool("critical_thinking", cfg.critical).
		Int("turns", len(t.transcript)).
		Msg("Answering question")

	response := t.gateway.Chat(ctx, messages)

	t.transcript = append(t.transcript, generation.Turn{Role: generation.RoleAssistant, Content: response})
	return response
}

// GuideCriticalThinking asks the model for guidance on problem at the given
// stage. The transcript is not touched.
func (t *Tutor) GuideCriticalThinking(ctx context.Context, problem, stage string) string {
	prompt := fmt.Sprintf("Problem: %s\n\nStage: %s\n\n%s", problem, stage, critical.StagePrompt(stage))

	t.logger.Debug().Str("stage", stage).Msg("Guiding critical thinking")
	return t.gateway.Generate(ctx, prompt,
		generation.WithSystemPrompt(prompts.SystemPrompt(prompts.ModeCriticalThinking)))
}

// ResetConversation clears the transcript.
func (t *Tutor) ResetConversation() {
	t.transcript = []generation.Turn{}
	t.logger.Info().Msg("Conversation history reset")
}

// Transcript returns a copy of the conversation so far.
func (t *Tutor) Transcript() []generation.Turn {
	return append([]generation.Turn{}, t.transcript...)
}

// Len is the number of turns in the transcript.
func (t *Tutor) Len() int { return len(t.transcript) }
