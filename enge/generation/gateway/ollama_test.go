package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	ports "github.com/ZanzyTHEbar/enge-ai/enge/generation/harness/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama serves the subset of the Ollama API the client uses and
// records the decoded request bodies.
type fakeOllama struct {
	mu       sync.Mutex
	models   []string
	pulled   []string
	requests map[string][]map[string]any

	generateBody string // raw JSON returned from /api/generate
	chatBody     string // raw JSON returned from /api/chat
	failPull     bool
	status       int
}

func newFakeOllama(models ...string) *fakeOllama {
	return &fakeOllama{
		models:       models,
		requests:     make(map[string][]map[string]any),
		generateBody: `{"model":"llama3.2","response":"generated text","done":true}`,
		chatBody:     `{"model":"llama3.2","message":{"role":"assistant","content":"chat reply"},"done":true}`,
	}
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Body != nil && r.Method == http.MethodPost {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.requests[r.URL.Path] = append(f.requests[r.URL.Path], body)
	}

	if f.status != 0 {
		http.Error(w, "runtime exploded", f.status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/tags":
		type model struct {
			Name string `json:"name"`
		}
		resp := struct {
			Models []model `json:"models"`
		}{}
		for _, m := range f.models {
			resp.Models = append(resp.Models, model{Name: m})
		}
		_ = json.NewEncoder(w).Encode(resp)
	case "/api/pull":
		if f.failPull {
			http.Error(w, "pull failed", http.StatusInternalServerError)
			return
		}
		name, _ := f.requests["/api/pull"][len(f.requests["/api/pull"])-1]["model"].(string)
		f.pulled = append(f.pulled, name)
		f.models = append(f.models, name)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	case "/api/generate":
		_, _ = w.Write([]byte(f.generateBody))
	case "/api/chat":
		_, _ = w.Write([]byte(f.chatBody))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeOllama) lastRequest(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := f.requests[path]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

func TestOllamaClientListModels(t *testing.T) {
	fake := newFakeOllama("llama3.2", "mistral:latest")
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewOllamaClient(server.URL + "/")
	models, err := client.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.2", "mistral:latest"}, models)
	assert.Equal(t, server.URL, client.Endpoint())
}

func TestOllamaClientGenerateRequestShape(t *testing.T) {
	fake := newFakeOllama("llama3.2")
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewOllamaClient(server.URL)
	completion, err := client.Generate(context.Background(), ports.GenerateRequest{
		Model:  "llama3.2",
		Prompt: "Explain Reynolds number",
		System: "You are a tutor",
		Params: ports.GenerationParams{Temperature: 0.8, MaxTokens: 512},
	})
	require.NoError(t, err)
	assert.Equal(t, ports.Completion{Content: "generated text", HasContent: true}, completion)

	body := fake.lastRequest("/api/generate")
	require.NotNil(t, body)
	assert.Equal(t, "llama3.2", body["model"])
	assert.Equal(t, "Explain Reynolds number", body["prompt"])
	assert.Equal(t, "You are a tutor", body["system"])
	assert.Equal(t, false, body["stream"])
	options := body["options"].(map[string]any)
	assert.Equal(t, 0.8, options["temperature"])
	assert.Equal(t, float64(512), options["num_predict"])
}

func TestOllamaClientGenerateOmitsEmptySystem(t *testing.T) {
	fake := newFakeOllama("llama3.2")
	server := httptest.NewServer(fake)
	defer server.Close()

	_, err := NewOllamaClient(server.URL).Generate(context.Background(), ports.GenerateRequest{Model: "llama3.2", Prompt: "p"})
	require.NoError(t, err)

	_, present := fake.lastRequest("/api/generate")["system"]
	assert.False(t, present)
}

func TestOllamaClientMissingKeys(t *testing.T) {
	fake := newFakeOllama("llama3.2")
	fake.generateBody = `{"model":"llama3.2","done":true}`
	fake.chatBody = `{"model":"llama3.2","message":{"role":"assistant"},"done":true}`
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewOllamaClient(server.URL)

	gen, err := client.Generate(context.Background(), ports.GenerateRequest{Model: "llama3.2"})
	require.NoError(t, err)
	assert.False(t, gen.HasContent)

	chat, err := client.Chat(context.Background(), ports.ChatRequest{Model: "llama3.2"})
	require.NoError(t, err)
	assert.False(t, chat.HasContent)
}

func TestOllamaClientEmptyContentIsStillContent(t *testing.T) {
	fake := newFakeOllama("llama3.2")
	fake.generateBody = `{"response":""}`
	server := httptest.NewServer(fake)
	defer server.Close()

	gen, err := NewOllamaClient(server.URL).Generate(context.Background(), ports.GenerateRequest{Model: "llama3.2"})
	require.NoError(t, err)
	assert.True(t, gen.HasContent)
	assert.Empty(t, gen.Content)
}

func TestOllamaClientChatMessages(t *testing.T) {
	fake := newFakeOllama("llama3.2")
	server := httptest.NewServer(fake)
	defer server.Close()

	completion, err := NewOllamaClient(server.URL).Chat(context.Background(), ports.ChatRequest{
		Model: "llama3.2",
		Messages: []ports.ChatMessage{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "hi"},
		},
		Params: ports.GenerationParams{Temperature: 0.7, MaxTokens: 1024},
	})
	require.NoError(t, err)
	assert.Equal(t, "chat reply", completion.Content)

	body := fake.lastRequest("/api/chat")
	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "sys"}, messages[0])
	assert.Equal(t, false, body["stream"])
}

func TestOllamaClientStatusError(t *testing.T) {
	fake := newFakeOllama()
	fake.status = http.StatusServiceUnavailable
	server := httptest.NewServer(fake)
	defer server.Close()

	_, err := NewOllamaClient(server.URL).Chat(context.Background(), ports.ChatRequest{Model: "m"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "runtime exploded")
}

func TestOllamaClientPull(t *testing.T) {
	fake := newFakeOllama()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewOllamaClient(server.URL)
	require.NoError(t, client.PullModel(context.Background(), "llama3.2"))
	assert.Equal(t, []string{"llama3.2"}, fake.pulled)
	assert.Equal(t, false, fake.lastRequest("/api/pull")["stream"])

	fake.failPull = true
	assert.Error(t, client.PullModel(context.Background(), "phi3"))
}

func TestOllamaClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewOllamaClient(url).ListModels(context.Background())
	assert.Error(t, err)
}
