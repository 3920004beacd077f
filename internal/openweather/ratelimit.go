package openweather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Client with a token-bucket limiter so a single
// process stays inside the provider's request quota. Calls block until
// the limiter grants a slot or the context is cancelled.
type RateLimited struct {
	client  *Client
	limiter *rate.Limiter
}

// NewRateLimited creates a rate-limited wrapper. rps may be fractional
// for quotas below one request per second.
func NewRateLimited(client *Client, rps float64, burst int) *RateLimited {
	return &RateLimited{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) CurrentByCity(ctx context.Context, city string) (*Conditions, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.client.CurrentByCity(ctx, city)
}

func (r *RateLimited) CurrentByCoords(ctx context.Context, lat, lon float64) (*Conditions, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.client.CurrentByCoords(ctx, lat, lon)
}
