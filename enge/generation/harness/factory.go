package harness

import (
	"context"

	"github.com/ZanzyTHEbar/enge-ai/enge/config"
	"github.com/ZanzyTHEbar/enge-ai/enge/generation/harness/adapters"
	ports "github.com/ZanzyTHEbar/enge-ai/enge/generation/harness/ports"
	"github.com/rs/zerolog"
)

// Factory creates harness adapters from configuration.
type Factory struct {
	harnessConfig config.HarnessConfig
	logger        zerolog.Logger
}

func NewFactory(harnessConfig config.HarnessConfig, logger zerolog.Logger) *Factory {
	return &Factory{
		harnessConfig: harnessConfig,
		logger:        logger,
	}
}

// RateLimiter returns a token bucket when rate limiting is enabled and a
// pass-through limiter otherwise.
func (f *Factory) RateLimiter() ports.RateLimiter {
	if !f.harnessConfig.RateLimitEnabled {
		return NopRateLimiter{}
	}

	capacity := f.harnessConfig.RateLimitCapacity
	if capacity < 1 {
		f.logger.Warn().Int("rate_limit_capacity", capacity).Msg("RateLimitCapacity clamped to minimum of 1")
		capacity = 1
	}

	f.logger.Debug().
		Int("capacity", capacity).
		Dur("refill_rate", f.harnessConfig.RateLimitRefillRate).
		Msg("Rate limiting enabled")
	return adapters.NewTokenBucket(capacity, f.harnessConfig.RateLimitRefillRate)
}

// Tracer returns a zerolog tracer when tracing is enabled.
func (f *Factory) Tracer() ports.Tracer {
	if !f.harnessConfig.EnableTracing {
		return NopTracer{}
	}
	return adapters.NewZerologTracer(f.logger.With().Str("component", "trace").Logger())
}

// NopRateLimiter never limits.
type NopRateLimiter struct{}

func (NopRateLimiter) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

// NopTracer discards spans and events.
type NopTracer struct{}

func (NopTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	return ctx, func(error) {}
}

func (NopTracer) Event(ctx context.Context, name string, attrs map[string]any) {}

var (
	_ ports.RateLimiter = NopRateLimiter{}
	_ ports.Tracer      = NopTracer{}
)
