package oracle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited paces requests to the wrapped Completer. Enrichment batches
// are issued concurrently, so the limiter is shared by every caller.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter of requestsPerMinute. A
// non-positive rate returns next unchanged.
func NewRateLimited(next Completer, requestsPerMinute int) Completer {
	if requestsPerMinute <= 0 {
		return next
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

func (r *RateLimited) Complete(ctx context.Context, req Request) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return r.next.Complete(ctx, req)
}
