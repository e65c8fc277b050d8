// Package scraper fetches candidate pages for enrichment.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/FranksOps/leadburr/internal/bypass"
	"github.com/FranksOps/leadburr/internal/fingerprint"
	"github.com/FranksOps/leadburr/internal/metrics"
	"github.com/FranksOps/leadburr/pkg/httpclient"
	"github.com/FranksOps/leadburr/pkg/proxy"
	"github.com/FranksOps/leadburr/pkg/ratelimit"
	"github.com/FranksOps/leadburr/pkg/useragent"
)

var (
	// ErrBlocked means the page was an anti-bot challenge.
	ErrBlocked = errors.New("scraper: blocked by bot protection")
	// ErrDisallowed means robots.txt forbids the path.
	ErrDisallowed = errors.New("scraper: disallowed by robots.txt")
	// ErrStatus means the server answered with a non-2xx status.
	ErrStatus = errors.New("scraper: unexpected status")
)

const (
	DefaultTimeout = 5 * time.Second
	DefaultMaxBody = 2 << 20
)

type contextKey string

const proxyKey contextKey = "proxy_url"

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	// MaxBody caps how much of a page is read. Default 2 MiB.
	MaxBody     int64
	ProxyPool   *proxy.Pool
	UAPool      *useragent.Pool
	Fingerprint fingerprint.Profile
	// Limiter caps the global fetch rate; nil means unlimited.
	Limiter *ratelimit.Limiter
	// RespectRobots consults robots.txt before each page fetch.
	RespectRobots bool
	// InsecureSkipVerify is for tests against self-signed servers.
	InsecureSkipVerify bool
	Logger             *slog.Logger
}

// Page is a fetched document.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Fetcher performs single page fetches. It is safe for concurrent use.
type Fetcher struct {
	config FetchConfig
	client *httpclient.Client
	robots *RobotsGate
}

// NewFetcher builds a Fetcher. One transport is shared by every fetch so
// connections are pooled.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// The proxy for a request travels in its context so rotation needs no
	// transport mutation.
	proxyFunc := func(req *http.Request) (*url.URL, error) {
		if u, ok := req.Context().Value(proxyKey).(*url.URL); ok && u != nil {
			return u, nil
		}
		return http.ProxyFromEnvironment(req)
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint, fingerprint.Options{
		Proxy:              proxyFunc,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if err != nil {
		return nil, fmt.Errorf("scraper: transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("scraper: client: %w", err)
	}

	f := &Fetcher{config: cfg, client: client}
	if cfg.RespectRobots {
		f.robots = NewRobotsGate(f, cfg.Logger)
	}
	return f, nil
}

// Fetch GETs target. A non-nil Page may accompany ErrStatus or ErrBlocked.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*Page, error) {
	if err := f.config.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scraper: rate limiter: %w", err)
	}

	ua := f.config.UAPool.Next()
	if f.robots != nil && !f.robots.Allowed(ctx, target, ua) {
		metrics.PageFetches.WithLabelValues("disallowed").Inc()
		return nil, fmt.Errorf("%w: %s", ErrDisallowed, target)
	}

	start := time.Now()
	page, err := f.get(ctx, target, ua)
	d := time.Since(start)

	switch {
	case errors.Is(err, ErrBlocked):
		metrics.RecordFetch("blocked", d)
	case err != nil:
		metrics.RecordFetch("error", d)
	default:
		metrics.RecordFetch("ok", d)
	}
	return page, err
}

func (f *Fetcher) get(ctx context.Context, target, ua string) (*Page, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper: request: %w", err)
	}
	for k, v := range useragent.BrowserHeaders(ua) {
		req.Header.Set(k, v)
	}

	var activeProxy *url.URL
	if f.config.ProxyPool != nil {
		if activeProxy = f.config.ProxyPool.Next(); activeProxy != nil {
			req = req.WithContext(context.WithValue(req.Context(), proxyKey, activeProxy))
		}
	}

	resp, err := f.client.Do(req.Context(), req)
	if activeProxy != nil {
		_ = f.config.ProxyPool.Report(activeProxy, err)
		if err != nil {
			metrics.ProxyFailures.WithLabelValues(activeProxy.Redacted()).Inc()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("scraper: %w", err)
	}

	body, err := httpclient.ReadBody(resp, f.config.MaxBody)
	if err != nil {
		return nil, fmt.Errorf("scraper: read body: %w", err)
	}

	page := &Page{
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Duration:   time.Since(start),
	}

	res := bypass.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if src, blocked := bypass.Detect(res, bypass.DefaultDetectors()); blocked {
		metrics.BotDetections.WithLabelValues(src).Inc()
		return page, fmt.Errorf("%w (%s): %s", ErrBlocked, src, target)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, target)
	}
	return page, nil
}
