package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ports "github.com/ZanzyTHEbar/enge-ai/enge/generation/harness/ports"
)

// OllamaClient speaks the Ollama HTTP API.
type OllamaClient struct {
	endpoint string
	client   *http.Client
}

// OllamaOption configures an OllamaClient.
type OllamaOption func(*OllamaClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) OllamaOption {
	return func(o *OllamaClient) { o.client = c }
}

// WithRequestTimeout bounds each request. Zero leaves requests unbounded.
func WithRequestTimeout(d time.Duration) OllamaOption {
	return func(o *OllamaClient) {
		if d > 0 {
			o.client.Timeout = d
		}
	}
}

// NewOllamaClient creates a client for the runtime at endpoint.
func NewOllamaClient(endpoint string, opts ...OllamaOption) *OllamaClient {
	c := &OllamaClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the base URL.
func (c *OllamaClient) Endpoint() string { return c.endpoint }

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

// Pointer fields distinguish an absent key from an empty string.
type ollamaGenerateResponse struct {
	Model    string  `json:"model"`
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message *struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type ollamaPullRequest struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// ListModels returns the names of installed models.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	var tags ollamaTagsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// PullModel asks the runtime to download name and waits for it to finish.
func (c *OllamaClient) PullModel(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodPost, "/api/pull", ollamaPullRequest{Model: name}, nil); err != nil {
		return fmt.Errorf("failed to pull model %s: %w", name, err)
	}
	return nil
}

// Generate performs a single-shot, non-streaming completion.
func (c *OllamaClient) Generate(ctx context.Context, req ports.GenerateRequest) (ports.Completion, error) {
	body := ollamaGenerateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		System: req.System,
		Options: ollamaOptions{
			Temperature: req.Params.Temperature,
			NumPredict:  req.Params.MaxTokens,
		},
	}

	var resp ollamaGenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", body, &resp); err != nil {
		return ports.Completion{}, err
	}
	if resp.Response == nil {
		return ports.Completion{}, nil
	}
	return ports.Completion{Content: *resp.Response, HasContent: true}, nil
}

// Chat performs a multi-turn, non-streaming completion.
func (c *OllamaClient) Chat(ctx context.Context, req ports.ChatRequest) (ports.Completion, error) {
	messages := make([]ollamaMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = ollamaMessage{Role: m.Role, Content: m.Content}
	}
	body := ollamaChatRequest{
		Model:    req.Model,
		Messages: messages,
		Options: ollamaOptions{
			Temperature: req.Params.Temperature,
			NumPredict:  req.Params.MaxTokens,
		},
	}

	var resp ollamaChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", body, &resp); err != nil {
		return ports.Completion{}, err
	}
	if resp.Message == nil || resp.Message.Content == nil {
		return ports.Completion{}, nil
	}
	return ports.Completion{Content: *resp.Message.Content, HasContent: true}, nil
}

func (c *OllamaClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("runtime returned status %d", e.Code)
	}
	return fmt.Sprintf("runtime returned status %d: %s", e.Code, e.Body)
}

var _ ports.ModelRuntime = (*OllamaClient)(nil)
