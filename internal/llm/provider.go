package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedClient serializa el acceso al modelo con un token bucket compartido.
type RateLimitedClient struct {
	next    LLMClient
	limiter *rate.Limiter
}

func NewRateLimitedClient(next LLMClient, rps float64, burst int) *RateLimitedClient {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedClient{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (c *RateLimitedClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm rate limit wait: %w", err)
	}
	return c.next.Generate(ctx, prompt)
}

// Configured delega en el cliente envuelto cuando sabe responder.
func (c *RateLimitedClient) Configured() bool {
	if cc, ok := c.next.(interface{ Configured() bool }); ok {
		return cc.Configured()
	}
	return true
}
