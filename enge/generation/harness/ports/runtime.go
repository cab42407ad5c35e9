package harnessports

import "context"

// GenerationParams are the sampling parameters sent with every call.
type GenerationParams struct {
	Temperature float64
	MaxTokens   int
}

// GenerateRequest is a single-shot completion request.
type GenerateRequest struct {
	Model  string
	Prompt string
	System string // optional
	Params GenerationParams
}

// ChatMessage is one role-tagged message in a chat request.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest is a multi-turn completion request.
type ChatRequest struct {
	Model    string
	Messages []ChatMessage
	Params   GenerationParams
}

// Completion is the text returned by the runtime. HasContent is false when
// the runtime answered without the expected text field.
type Completion struct {
	Content    string
	HasContent bool
}

// ModelRuntime is the wire-level client for a locally hosted model server.
type ModelRuntime interface {
	ListModels(ctx context.Context) ([]string, error)
	PullModel(ctx context.Context, name string) error
	Generate(ctx context.Context, req GenerateRequest) (Completion, error)
	Chat(ctx context.Context, req ChatRequest) (Completion, error)
}
