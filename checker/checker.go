// Package checker implements the link verification engine: extracting
// link targets from matched files, verifying them against the
// filesystem and the network with a bounded worker pool, and
// aggregating per-link outcomes into a run report.
package checker

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultConcurrency is the worker pool size when none is configured.
	DefaultConcurrency = 16
	// DefaultTimeout bounds each HTTP probe when none is configured.
	DefaultTimeout = 10 * time.Second

	defaultUserAgent = "checklinks/1.0 (+https://github.com/docwire/checklinks)"

	resultBuffer = 100
)

// Source supplies the candidate file paths for one run. Walk calls fn
// once per file and stops early when fn or the context reports an error.
type Source interface {
	Walk(ctx context.Context, fn func(path string) error) error
}

// Config holds the knobs for a verification run.
type Config struct {
	Categories    []*Category   // extraction categories in match order; nil means Builtins
	Concurrency   int           // max in-flight verifications
	Timeout       time.Duration // per-probe HTTP timeout
	RateLimit     float64       // max HTTP requests per second, 0 means unlimited
	UserAgent     string        // User-Agent header for probes
	RespectRobots bool          // honor robots.txt exclusions
	Retry         RetryPolicy   // transient failure retries
}

// Checker verifies every link found in a file source. A Checker runs
// once; create a new one for each run.
type Checker struct {
	cfg     Config
	source  Source
	client  *http.Client
	limiter *rate.Limiter
	robots  *robotsGate
	probed  sync.Map // raw URL -> *probeEntry
	events  chan<- Event
}

// New creates a Checker over source. Zero config fields fall back to
// sensible defaults. Progress streams to events if non-nil; Run closes
// the channel when it finishes.
func New(cfg Config, source Source, events chan<- Event) *Checker {
	if len(cfg.Categories) == 0 {
		cfg.Categories = Builtins()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Retry.BaseDelay <= 0 {
		cfg.Retry.BaseDelay = time.Second
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = 30 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = max(1, int(cfg.RateLimit))
	}

	c := &Checker{
		cfg:     cfg,
		source:  source,
		limiter: rate.NewLimiter(limit, burst),
		events:  events,
		client: &http.Client{
			Timeout: cfg.Timeout,
			// The first response decides the verdict; following
			// redirects would hide the 302 the policy cares about.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	if cfg.RespectRobots {
		c.robots = newRobotsGate(&http.Client{Timeout: cfg.Timeout}, cfg.UserAgent)
	}
	return c
}

// Run walks the source, verifies every extracted link, and returns the
// aggregate report. Link discovery overlaps verification: the walk
// feeds a bounded worker pool and results are tallied as they arrive.
// A file that cannot be read or scanned is reported and skipped; only
// pool-level failures (an unreadable root, a cancelled context) abort
// the run.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	defer func() {
		if c.events != nil {
			close(c.events)
		}
	}()

	jobs := make(chan *Link, c.cfg.Concurrency*3)
	results := make(chan *Link, resultBuffer)

	g, gctx := errgroup.WithContext(ctx)

	// Workers verify links until the jobs channel drains.
	var workers sync.WaitGroup
	for range c.cfg.Concurrency {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			return c.verifyLoop(gctx, jobs, results)
		})
	}

	// Discovery feeds the pool while the walk is still in progress.
	g.Go(func() error {
		defer close(jobs)
		return c.discover(gctx, jobs)
	})

	// Close results once the last worker has drained out.
	g.Go(func() error {
		workers.Wait()
		close(results)
		return nil
	})

	report := &Report{}
	for link := range results {
		report.Total++
		switch link.Status.State {
		case StateReachable:
			report.Reachable++
		case StateQuestionable:
			report.Questionable++
			report.Problems = append(report.Problems, link)
		case StateUnreachable:
			report.Unreachable++
			report.Problems = append(report.Problems, link)
		}
		c.send(gctx, Event{
			Link:         link,
			Checked:      report.Total,
			Broken:       report.Unreachable,
			Questionable: report.Questionable,
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verification aborted: %w", err)
	}

	report.sortProblems()
	report.Duration = time.Since(start)
	return report, nil
}

// discover walks the source and pushes one job per extracted link.
func (c *Checker) discover(ctx context.Context, jobs chan<- *Link) error {
	return c.source.Walk(ctx, func(path string) error {
		category := MatchCategory(c.cfg.Categories, path)
		if category == nil {
			return nil
		}
		c.send(ctx, Event{Path: path})

		var stopped bool
		err := category.Links(path, func(line int, raw string) bool {
			select {
			case jobs <- NewLink(path, line, raw):
				return true
			case <-ctx.Done():
				stopped = true
				return false
			}
		})
		if err != nil {
			// An unreadable file costs its links, not the run.
			c.send(ctx, Event{Path: path, Err: err})
			return nil
		}
		if stopped {
			return ctx.Err()
		}
		return nil
	})
}

// verifyLoop is one worker: take a link, verify it, hand it to the
// collector.
func (c *Checker) verifyLoop(ctx context.Context, jobs <-chan *Link, results chan<- *Link) error {
	for {
		select {
		case link, ok := <-jobs:
			if !ok {
				return nil
			}
			c.verify(ctx, link)
			select {
			case results <- link:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// verify resolves one link in place. A broken link is a result, never
// an error.
func (c *Checker) verify(ctx context.Context, link *Link) {
	var status Status
	switch link.Kind {
	case KindHTTP:
		status = c.probe(ctx, link.Raw)
	default:
		status = resolveLocal(link)
	}
	link.Status = &status
}

// send delivers an event without ever blocking a cancelled run.
func (c *Checker) send(ctx context.Context, evt Event) {
	if c.events == nil {
		return
	}
	select {
	case c.events <- evt:
	case <-ctx.Done():
	}
}
