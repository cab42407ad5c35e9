package generation

import "context"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single chat message sent to or received from the model.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CallOptions are per-call overrides. Nil fields fall back to the
// gateway's configured defaults.
type CallOptions struct {
	SystemPrompt string
	Temperature  *float64
	MaxTokens    *int
}

// CallOption mutates CallOptions.
type CallOption func(*CallOptions)

// WithSystemPrompt sets the system prompt for a single-shot generation.
func WithSystemPrompt(system string) CallOption {
	return func(o *CallOptions) { o.SystemPrompt = system }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) CallOption {
	return func(o *CallOptions) { o.Temperature = &t }
}

// WithMaxTokens overrides the generation cap.
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) { o.MaxTokens = &n }
}

// ApplyCallOptions folds opts into a CallOptions value.
func ApplyCallOptions(opts ...CallOption) CallOptions {
	var o CallOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Completer is the text-in/text-out surface the orchestrators depend on.
// Implementations never fail: errors are reported inside the returned text.
type Completer interface {
	Generate(ctx context.Context, prompt string, opts ...CallOption) string
	Chat(ctx context.Context, messages []Turn, opts ...CallOption) string
}
