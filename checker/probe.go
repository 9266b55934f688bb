package checker

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// probeEntry holds the shared outcome for one URL. The first goroutine
// to claim the entry performs the probe; everyone else blocks on the
// Once and reuses its status.
type probeEntry struct {
	once   sync.Once
	status Status
}

// probe returns the status for rawURL, issuing at most one network probe
// per URL per run no matter how many files reference it.
func (c *Checker) probe(ctx context.Context, rawURL string) Status {
	v, _ := c.probed.LoadOrStore(rawURL, &probeEntry{})
	entry := v.(*probeEntry)
	entry.once.Do(func() {
		entry.status = c.probeURL(ctx, rawURL)
	})
	return entry.status
}

// probeURL checks robots.txt when configured, then probes with retries.
func (c *Checker) probeURL(ctx context.Context, rawURL string) Status {
	if c.robots != nil {
		allowed, err := c.robots.Allowed(ctx, rawURL)
		if err != nil {
			// The gate fails open; surface the reason so the operator
			// knows the exclusions are not enforced for this host.
			c.send(ctx, Event{Path: rawURL, Note: err.Error()})
		}
		if !allowed {
			return Status{State: StateQuestionable, Detail: "blocked by robots.txt"}
		}
	}
	return c.probeWithRetry(ctx, rawURL)
}

// headOnce performs a single HEAD request and maps the response onto a
// status. The bool reports whether the failure was transient and
// therefore eligible for retry.
func (c *Checker) headOnce(ctx context.Context, rawURL string) (Status, bool) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Status{State: StateUnreachable}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return Status{State: StateUnreachable}, false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		class := classifyNetErr(err)
		status := Status{State: StateUnreachable}
		if class == netErrTimeout {
			status.Detail = "timeout"
		}
		return status, class.retryable()
	}
	_ = resp.Body.Close()

	return statusForCode(resp.StatusCode), transientCode(resp.StatusCode)
}

// statusForCode applies the verdict policy. Success and plain 302
// redirects are reachable. Codes that commonly mean "fine in a browser,
// hostile to bots" are questionable rather than broken. Everything else,
// including other redirect codes, is unreachable.
func statusForCode(code int) Status {
	switch {
	case code >= 200 && code < 300, code == http.StatusFound:
		return Status{State: StateReachable}
	case code == http.StatusUnauthorized,
		code == http.StatusForbidden,
		code == http.StatusMethodNotAllowed,
		code == http.StatusNotAcceptable:
		return Status{State: StateQuestionable, Detail: fmt.Sprintf("received status code %d", code)}
	default:
		return Status{State: StateUnreachable, Detail: fmt.Sprintf("received status code %d", code)}
	}
}

// transientCode reports whether a status code signals a condition worth
// retrying. Rate limiting and server errors pass; client errors are
// final answers.
func transientCode(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
