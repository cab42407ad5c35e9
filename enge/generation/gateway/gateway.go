package gateway

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ZanzyTHEbar/enge-ai/enge/config"
	"github.com/ZanzyTHEbar/enge-ai/enge/generation"
	"github.com/ZanzyTHEbar/enge-ai/enge/generation/harness"
	ports "github.com/ZanzyTHEbar/enge-ai/enge/generation/harness/ports"

	"github.com/rs/zerolog"
)

// Strings returned in place of model output when a call cannot be served.
const (
	SentinelUnavailable = "Model is not available. Please check logs for details."
	SentinelNoResponse  = "No response generated"

	GenerateErrorPrefix = "Error generating response: "
	ChatErrorPrefix     = "Error in chat: "
)

// Gateway is the single point of contact with the model runtime. Generate
// and Chat never fail: unavailability, transport errors and malformed
// responses are logged and reported as text.
type Gateway struct {
	runtime ports.ModelRuntime
	limiter ports.RateLimiter
	tracer  ports.Tracer
	logger  zerolog.Logger

	mu        sync.RWMutex
	cfg       config.ModelConfig
	available bool
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

func WithRateLimiter(l ports.RateLimiter) Option {
	return func(g *Gateway) {
		if l != nil {
			g.limiter = l
		}
	}
}

func WithTracer(t ports.Tracer) Option {
	return func(g *Gateway) {
		if t != nil {
			g.tracer = t
		}
	}
}

// New creates a gateway for cfg.Name, checking availability and pulling the
// model when it is missing and cfg.PullOnMissing is set.
func New(ctx context.Context, rt ports.ModelRuntime, cfg config.ModelConfig, opts ...Option) *Gateway {
	g := &Gateway{
		runtime: rt,
		limiter: harness.NopRateLimiter{},
		tracer:  harness.NopTracer{},
		logger:  zerolog.Nop(),
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.activate(ctx, cfg.Name)
	return g
}

func (g *Gateway) activate(ctx context.Context, name string) {
	ok := g.CheckAvailability(ctx, name)
	if !ok {
		g.mu.RLock()
		pull := g.cfg.PullOnMissing
		g.mu.RUnlock()
		if pull {
			g.logger.Info().Str("model", name).Msg("Model not found, pulling from library")
			ok = g.PullModel(ctx, name)
		}
	}

	g.mu.Lock()
	g.available = ok
	g.mu.Unlock()
}

// CheckAvailability reports whether name exactly matches an installed
// model. Transport failures count as unavailable.
func (g *Gateway) CheckAvailability(ctx context.Context, name string) bool {
	models, err := g.runtime.ListModels(ctx)
	if err != nil {
		g.logger.Error().Err(err).Str("model", name).Msg("Error checking model availability")
		return false
	}
	if slices.Contains(models, name) {
		g.logger.Info().Str("model", name).Msg("Model is available locally")
		return true
	}
	return false
}

// PullModel fetches name from the runtime's library. It returns false and
// logs on failure.
func (g *Gateway) PullModel(ctx context.Context, name string) bool {
	ctx, finish := g.tracer.StartSpan(ctx, "gateway.pull", map[string]any{"model": name})
	err := g.runtime.PullModel(ctx, name)
	finish(err)
	if err != nil {
		g.logger.Error().Err(err).Str("model", name).Msg("Error pulling model")
		return false
	}
	g.logger.Info().Str("model", name).Msg("Model successfully pulled")
	return true
}

// SetModel switches the active model and re-validates availability.
func (g *Gateway) SetModel(ctx context.Context, name string) {
	g.mu.Lock()
	g.cfg.Name = name
	g.mu.Unlock()

	g.activate(ctx, name)
}

// ListModels returns the installed model names, or an empty slice on error.
func (g *Gateway) ListModels(ctx context.Context) []string {
	models, err := g.runtime.ListModels(ctx)
	if err != nil {
		g.logger.Error().Err(err).Msg("Error listing available models")
		return []string{}
	}
	return models
}

// Available reports the result of the last availability check.
func (g *Gateway) Available() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.available
}

// Config returns a copy of the active model configuration.
func (g *Gateway) Config() config.ModelConfig {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// Generate runs a single-shot completion.
func (g *Gateway) Generate(ctx context.Context, prompt string, opts ...generation.CallOption) string {
	cfg, ok := g.snapshot()
	if !ok {
		g.tracer.Event(ctx, "gateway.unavailable", map[string]any{"model": cfg.Name, "call": "generate"})
		return SentinelUnavailable
	}

	o := generation.ApplyCallOptions(opts...)
	req := harness.BuildGenerateRequest(cfg.Name, prompt, o.SystemPrompt, g.params(cfg, o))

	completion, err := g.call(ctx, "gateway.generate", cfg.Name, func(ctx context.Context) (ports.Completion, error) {
		return g.runtime.Generate(ctx, req)
	})
	if err != nil {
		g.logger.Error().Err(err).Str("model", cfg.Name).Msg("Error generating response")
		return GenerateErrorPrefix + err.Error()
	}
	if !completion.HasContent {
		g.logger.Warn().Str("model", cfg.Name).Msg("Runtime response had no text")
		g.tracer.Event(ctx, "gateway.no_response", map[string]any{"model": cfg.Name, "call": "generate"})
		return SentinelNoResponse
	}
	return completion.Content
}

// Chat runs a multi-turn completion over messages.
func (g *Gateway) Chat(ctx context.Context, messages []generation.Turn, opts ...generation.CallOption) string {
	cfg, ok := g.snapshot()
	if !ok {
		g.tracer.Event(ctx, "gateway.unavailable", map[string]any{"model": cfg.Name, "call": "chat"})
		return SentinelUnavailable
	}

	o := generation.ApplyCallOptions(opts...)
	req := harness.BuildChatRequest(cfg.Name, messages, g.params(cfg, o))

	completion, err := g.call(ctx, "gateway.chat", cfg.Name, func(ctx context.Context) (ports.Completion, error) {
		return g.runtime.Chat(ctx, req)
	})
	if err != nil {
		g.logger.Error().Err(err).Str("model", cfg.Name).Int("messages", len(messages)).Msg("Error in chat")
		return ChatErrorPrefix + err.Error()
	}
	if !completion.HasContent {
		g.logger.Warn().Str("model", cfg.Name).Msg("Runtime chat response had no message content")
		g.tracer.Event(ctx, "gateway.no_response", map[string]any{"model": cfg.Name, "call": "chat"})
		return SentinelNoResponse
	}
	return completion.Content
}

// Health summarises the gateway state for display.
type Health struct {
	Model     string
	Endpoint  string
	Available bool
	Installed []string
}

func (g *Gateway) Health(ctx context.Context) Health {
	cfg, ok := g.snapshot()
	return Health{
		Model:     cfg.Name,
		Endpoint:  cfg.APIEndpoint,
		Available: ok,
		Installed: g.ListModels(ctx),
	}
}

func (g *Gateway) snapshot() (config.ModelConfig, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg, g.available
}

func (g *Gateway) params(cfg config.ModelConfig, o generation.CallOptions) ports.GenerationParams {
	p := ports.GenerationParams{
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
	if o.Temperature != nil {
		p.Temperature = *o.Temperature
	}
	if o.MaxTokens != nil {
		p.MaxTokens = *o.MaxTokens
	}
	return p
}

func (g *Gateway) call(ctx context.Context, span, model string, fn func(context.Context) (ports.Completion, error)) (ports.Completion, error) {
	release, err := g.limiter.Acquire(ctx, model)
	if err != nil {
		return ports.Completion{}, fmt.Errorf("rate limiter: %w", err)
	}
	defer release()

	ctx, finish := g.tracer.StartSpan(ctx, span, map[string]any{"model": model})
	completion, err := fn(ctx)
	finish(err)
	return completion, err
}

var _ generation.Completer = (*Gateway)(nil)
