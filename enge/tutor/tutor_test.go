package tutor

import (
	"context"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/enge-ai/enge/critical"
	"github.com/ZanzyTHEbar/enge-ai/enge/generation"
	"github.com/ZanzyTHEbar/enge-ai/enge/prompts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StubCompleter records every call and replies with reply.
type StubCompleter struct {
	reply     string
	chats     [][]generation.Turn
	generates []string
	genOpts   []generation.CallOptions
}

func (s *StubCompleter) Generate(ctx context.Context, prompt string, opts ...generation.CallOption) string {
	s.generates = append(s.generates, prompt)
	s.genOpts = append(s.genOpts, generation.ApplyCallOptions(opts...))
	return s.reply
}

func (s *StubCompleter) Chat(ctx context.Context, messages []generation.Turn, opts ...generation.CallOption) string {
	s.chats = append(s.chats, append([]generation.Turn(nil), messages...))
	return s.reply
}

var _ generation.Completer = (*StubCompleter)(nil)

func TestAnswerQuestionAppendsTwoTurns(t *testing.T) {
	for _, reply := range []string{
		"Bernoulli's equation relates pressure and velocity.",
		"Model is not available. Please check logs for details.",
		"Error in chat: connection refused",
		"",
	} {
		stub := &StubCompleter{reply: reply}
		tut := New(stub)

		got := tut.AnswerQuestion(context.Background(), "What is Bernoulli's equation?")
		assert.Equal(t, reply, got)

		transcript := tut.Transcript()
		require.Len(t, transcript, 2)
		assert.Equal(t, generation.Turn{Role: generation.RoleUser, Content: "What is Bernoulli's equation?"}, transcript[0])
		assert.Equal(t, generation.Turn{Role: generation.RoleAssistant, Content: reply}, transcript[1])
	}
}

func TestAnswerQuestionPayload(t *testing.T) {
	stub := &StubCompleter{reply: "a1"}
	tut := New(stub)
	ctx := context.Background()

	tut.AnswerQuestion(ctx, "q1")
	tut.AnswerQuestion(ctx, "q2", WithMode(prompts.ModeProblemSolving))

	require.Len(t, stub.chats, 2)

	first := stub.chats[0]
	require.Len(t, first, 2)
	assert.Equal(t, generation.RoleSystem, first[0].Role)
	assert.Equal(t, prompts.SystemPrompt(prompts.ModeGeneral)+"\n\n"+critical.EnhancementPrompt(), first[0].Content)
	assert.Equal(t, "q1", first[1].Content)

	second := stub.chats[1]
	require.Len(t, second, 4)
	assert.True(t, strings.HasPrefix(second[0].Content, prompts.SystemPrompt(prompts.ModeProblemSolving)))
	assert.Equal(t, []generation.Role{generation.RoleSystem, generation.RoleUser, generation.RoleAssistant, generation.RoleUser},
		[]generation.Role{second[0].Role, second[1].Role, second[2].Role, second[3].Role})

	// The system turn is never stored.
	for _, turn := range tut.Transcript() {
		assert.NotEqual(t, generation.RoleSystem, turn.Role)
	}
	assert.Equal(t, 4, tut.Len())
}

func TestCriticalThinkingEnhancement(t *testing.T) {
	tests := []struct {
		name    string
		mode    prompts.Mode
		include bool
		want    string
	}{
		{"general with enhancement", prompts.ModeGeneral, true,
			prompts.SystemPrompt(prompts.ModeGeneral) + "\n\n" + critical.EnhancementPrompt()},
		{"general without enhancement", prompts.ModeGeneral, false,
			prompts.SystemPrompt(prompts.ModeGeneral)},
		{"concept explanation with enhancement", prompts.ModeConceptExplanation, true,
			prompts.SystemPrompt(prompts.ModeConceptExplanation) + "\n\n" + critical.EnhancementPrompt()},
		{"critical thinking never doubled", prompts.ModeCriticalThinking, true,
			prompts.SystemPrompt(prompts.ModeCriticalThinking)},
		{"unknown mode falls back", prompts.Mode("socratic"), false,
			prompts.SystemPrompt(prompts.ModeGeneral)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &StubCompleter{reply: "ok"}
			New(stub).AnswerQuestion(context.Background(), "q", WithMode(tt.mode), WithCriticalThinking(tt.include))
			require.Len(t, stub.chats, 1)
			assert.Equal(t, tt.want, stub.chats[0][0].Content)
			assert.Equal(t, tt.want, SystemPrompt(tt.mode, tt.include))
		})
	}
}

func TestWithDefaults(t *testing.T) {
	stub := &StubCompleter{reply: "ok"}
	tut := New(stub, WithDefaults(prompts.ModeConceptExplanation, false))

	tut.AnswerQuestion(context.Background(), "q")
	assert.Equal(t, prompts.SystemPrompt(prompts.ModeConceptExplanation), stub.chats[0][0].Content)
}

func TestResetConversation(t *testing.T) {
	stub := &StubCompleter{reply: "ok"}
	tut := New(stub)

	tut.AnswerQuestion(context.Background(), "q1")
	tut.AnswerQuestion(context.Background(), "q2")
	require.Equal(t, 4, tut.Len())

	tut.ResetConversation()
	assert.Empty(t, tut.Transcript())
	assert.NotNil(t, tut.Transcript())

	tut.ResetConversation()
	assert.Equal(t, 0, tut.Len())

	tut.AnswerQuestion(context.Background(), "q3")
	require.Len(t, stub.chats, 3)
	assert.Len(t, stub.chats[2], 2, "history before reset must not be sent")
}

func TestTranscriptIsACopy(t *testing.T) {
	tut := New(&StubCompleter{reply: "ok"})
	tut.AnswerQuestion(context.Background(), "q")

	tr := tut.Transcript()
	tr[0].Content = "tampered"
	assert.Equal(t, "q", tut.Transcript()[0].Content)
}

func TestGuideCriticalThinking(t *testing.T) {
	stub := &StubCompleter{reply: "Consider the mass balance first."}
	tut := New(stub)

	got := tut.GuideCriticalThinking(context.Background(), "Size a CSTR for 90% conversion", "identify")
	assert.Equal(t, "Consider the mass balance first.", got)

	require.Len(t, stub.generates, 1)
	assert.Equal(t,
		"Problem: Size a CSTR for 90% conversion\n\nStage: identify\n\n"+critical.StagePrompt("identify"),
		stub.generates[0])
	assert.Equal(t, prompts.SystemPrompt(prompts.ModeCriticalThinking), stub.genOpts[0].SystemPrompt)

	assert.Empty(t, stub.chats)
	assert.Equal(t, 0, tut.Len())
}

func TestGuideCriticalThinkingUnknownStage(t *testing.T) {
	stub := &StubCompleter{reply: "ok"}
	New(stub).GuideCriticalThinking(context.Background(), "p", "bogus")

	assert.True(t, strings.HasSuffix(stub.generates[0], critical.StageNotFoundMessage))
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := New(&StubCompleter{})
	b := New(&StubCompleter{})
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
