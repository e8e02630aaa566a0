package server

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/biztime/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/biztime/internal/observability/metrics"
	"github.com/smallbiznis/biztime/internal/ratelimit"
	"go.uber.org/zap"
)

// WriteRateLimit gates mutating routes on a per-client token bucket.
// It is a pass-through when no limiter is configured or the policy is disabled.
func (s *Server) WriteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := normalizeRateLimitEndpoint(c)

		res, err := s.limiter.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("write rate limit check failed",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		if res.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}
		if !res.Allowed {
			denyWriteRateLimit(c, endpoint, res, s.obsMetrics)
			return
		}

		c.Next()
	}
}

func denyWriteRateLimit(c *gin.Context, endpoint string, res *ratelimit.Result, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("write rate limit exceeded",
		zap.String("endpoint", endpoint),
		zap.Duration("retry_after", res.RetryAfter),
	)
	recordRateLimitDenied(ctx, endpoint, metrics)

	c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(res)))
	AbortWithError(c, ErrRateLimited)
}

func recordRateLimitDenied(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint)
}

func retryAfterSeconds(res *ratelimit.Result) int {
	seconds := int(math.Ceil(res.RetryAfter.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return c.Request.Method + " " + endpoint
}
