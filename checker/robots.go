package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsGate caches robots.txt verdicts per host for the duration of one
// run. Every failure fails open: a host whose robots.txt cannot be
// fetched or parsed allows everything, since the point of the gate is
// politeness, not enforcement.
type robotsGate struct {
	client    *http.Client
	userAgent string
	hosts     sync.Map // host -> *robotsEntry
}

type robotsEntry struct {
	once sync.Once
	data *robotstxt.RobotsData // nil means allow all
}

func newRobotsGate(client *http.Client, userAgent string) *robotsGate {
	return &robotsGate{client: client, userAgent: userAgent}
}

// Allowed reports whether rawURL may be probed under the host's
// robots.txt. The returned error describes fetch or parse trouble for
// diagnostics only; it never blocks the probe.
func (r *robotsGate) Allowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return true, nil
	}

	v, _ := r.hosts.LoadOrStore(parsed.Host, &robotsEntry{})
	entry := v.(*robotsEntry)

	var fetchErr error
	entry.once.Do(func() {
		entry.data, fetchErr = r.fetch(ctx, parsed.Scheme, parsed.Host)
	})

	if entry.data == nil {
		return true, fetchErr
	}
	return entry.data.TestAgent(parsed.Path, r.userAgent), nil
}

// fetch retrieves and parses robots.txt for one host. A missing file, a
// server error, or transport trouble all yield nil data.
func (r *robotsGate) fetch(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", host, err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", host, err)
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read robots.txt for %s: %w", host, readErr)
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", host, err)
	}
	return data, nil
}
