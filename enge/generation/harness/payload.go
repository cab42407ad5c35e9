package harness

import (
	"strings"

	"github.com/ZanzyTHEbar/enge-ai/enge/generation"
	ports "github.com/ZanzyTHEbar/enge-ai/enge/generation/harness/ports"
)

// normalize converts CRLF line endings to LF and leaves other whitespace intact.
func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// BuildChatRequest converts conversation turns into a runtime chat request.
// The input slice is not modified.
func BuildChatRequest(model string, turns []generation.Turn, params ports.GenerationParams) ports.ChatRequest {
	messages := make([]ports.ChatMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, ports.ChatMessage{
			Role:    string(t.Role),
			Content: normalize(t.Content),
		})
	}
	return ports.ChatRequest{
		Model:    model,
		Messages: messages,
		Params:   params,
	}
}

// BuildGenerateRequest prepares a single-shot request.
func BuildGenerateRequest(model, prompt, system string, params ports.GenerationParams) ports.GenerateRequest {
	return ports.GenerateRequest{
		Model:  model,
		Prompt: normalize(prompt),
		System: normalize(system),
		Params: params,
	}
}
