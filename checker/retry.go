package checker

import (
	"context"
	"time"
)

// RetryPolicy configures how transient probe failures are retried.
// Timeouts, DNS failures, refused connections, 429s, and 5xx responses
// count as transient; definitive verdicts are never retried.
type RetryPolicy struct {
	MaxRetries int           // additional attempts after the first (0 disables retries)
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // backoff ceiling
}

// probeWithRetry runs headOnce with exponential backoff between
// transient failures. The status of the last attempt wins.
func (c *Checker) probeWithRetry(ctx context.Context, rawURL string) Status {
	status, transient := c.headOnce(ctx, rawURL)

	backoff := c.cfg.Retry.BaseDelay
	for attempt := 0; attempt < c.cfg.Retry.MaxRetries && transient; attempt++ {
		select {
		case <-ctx.Done():
			return status
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, c.cfg.Retry.MaxDelay)

		status, transient = c.headOnce(ctx, rawURL)
	}
	return status
}
