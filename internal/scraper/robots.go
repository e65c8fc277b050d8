package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsGate caches robots.txt per origin and answers whether a path may be
// fetched. Fetch or parse failures allow everything.
type RobotsGate struct {
	fetcher *Fetcher
	logger  *slog.Logger
	mu      sync.Mutex
	cache   map[string]*robotsEntry
}

// robotsEntry is loaded at most once per origin; mu is held during the
// fetch so concurrent callers for the same origin wait for it.
type robotsEntry struct {
	mu     sync.Mutex
	loaded bool
	data   *robotstxt.RobotsData
}

func NewRobotsGate(fetcher *Fetcher, logger *slog.Logger) *RobotsGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsGate{
		fetcher: fetcher,
		logger:  logger,
		cache:   make(map[string]*robotsEntry),
	}
}

// Allowed reports whether userAgent may fetch target.
func (r *RobotsGate) Allowed(ctx context.Context, target, userAgent string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return true
	}

	origin := u.Scheme + "://" + u.Host
	data, err := r.load(ctx, origin, userAgent)
	if err != nil {
		r.logger.Debug("robots.txt unavailable, allowing", "origin", origin, "error", err)
		return true
	}
	if data == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, userAgent)
}

// load fetches robots.txt for origin once. Only callers for the same origin
// wait on each other.
func (r *RobotsGate) load(ctx context.Context, origin, userAgent string) (*robotstxt.RobotsData, error) {
	r.mu.Lock()
	e, ok := r.cache[origin]
	if !ok {
		e = &robotsEntry{}
		r.cache[origin] = e
	}
	r.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return e.data, nil
	}

	page, err := r.fetcher.get(ctx, origin+"/robots.txt", userAgent)
	if err != nil && !errors.Is(err, ErrStatus) {
		// a cancelled caller leaves the origin for the next one to load
		e.loaded = ctx.Err() == nil
		return nil, err
	}

	// robotstxt maps 4xx to allow-all and 5xx to disallow-all.
	data, err := robotstxt.FromStatusAndBytes(page.StatusCode, page.Body)
	e.loaded = true
	if err != nil {
		return nil, fmt.Errorf("scraper: parse robots.txt: %w", err)
	}
	e.data = data
	return data, nil
}
