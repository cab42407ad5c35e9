package harnessports

import "context"

// RateLimiter coordinates throughput to the model runtime per model.
type RateLimiter interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
