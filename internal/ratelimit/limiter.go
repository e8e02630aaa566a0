package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/biztime/internal/config"
)

const keyWriteLimit = "biztime:ratelimit:write:%s"

// Limiter applies the current rate limit policy to mutating requests, one bucket per client.
type Limiter struct {
	bucket Bucket
	policy *config.RateLimitConfigHolder
}

func NewLimiter(bucket Bucket, policy *config.RateLimitConfigHolder) *Limiter {
	if bucket == nil || policy == nil {
		return nil
	}
	return &Limiter{bucket: bucket, policy: policy}
}

// Enabled is re-evaluated on every call since the policy can be reloaded at runtime.
func (l *Limiter) Enabled() bool {
	return l != nil && l.policy.Get().Enabled
}

// Allow reports whether client may perform another write. Disabled limiters always allow.
func (l *Limiter) Allow(ctx context.Context, client string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}

	client = strings.TrimSpace(client)
	if client == "" {
		client = "unknown"
	}

	policy := l.policy.Get()
	return l.bucket.Allow(ctx, fmt.Sprintf(keyWriteLimit, client), policy.Rate, policy.Burst)
}
