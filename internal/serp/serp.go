// Package serp holds the search engine adapters. Each adapter turns a query
// into candidate listings by scraping or calling one search backend.
package serp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/FranksOps/leadburr/internal/bypass"
	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/metrics"
	"github.com/FranksOps/leadburr/pkg/httpclient"
)

var (
	// ErrStatus is returned when a backend answers with a non-2xx status.
	ErrStatus = errors.New("serp: unexpected status")
	// ErrChallenge is returned when a backend serves a bot challenge page.
	ErrChallenge = errors.New("serp: bot challenge")
	// ErrMalformed is returned when a body cannot be parsed.
	ErrMalformed = errors.New("serp: malformed response")
)

// DefaultTimeout bounds a single engine call.
const DefaultTimeout = 10 * time.Second

const maxBody = 4 << 20

// Engine abstracts one search backend. Implementations never panic on bad
// input; failures come back as an error with an empty result.
type Engine interface {
	Name() string
	// Search runs query. headers override the request defaults.
	Search(ctx context.Context, query string, headers map[string]string) ([]lead.Candidate, error)
}

// Registry is the ordered set of engines consulted by the aggregator,
// most reliable first.
type Registry struct {
	mu      sync.RWMutex
	engines []Engine
}

// Register appends e in priority order.
func (r *Registry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines = append(r.engines, e)
}

// Engines returns a copy of the registered engines in order.
func (r *Registry) Engines() []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Engine, len(r.engines))
	copy(out, r.engines)
	return out
}

// EngineNames lists the adapters NewRegistryFromConfig understands.
var EngineNames = []string{"duckduckgo", "bing", "mojeek", "searxng", "brave"}

// Known reports whether name is a supported engine.
func Known(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range EngineNames {
		if n == name {
			return true
		}
	}
	return false
}

// RegistryConfig selects and configures engines.
type RegistryConfig struct {
	Engines     []string
	Client      *httpclient.Client
	SearxngURL  string
	BraveAPIKey string
}

// NewRegistryFromConfig builds a registry holding cfg.Engines in the given
// order. brave is silently left out when no API key is configured.
func NewRegistryFromConfig(cfg RegistryConfig) (*Registry, error) {
	reg := &Registry{}
	seen := make(map[string]bool)
	for _, raw := range cfg.Engines {
		name := strings.ToLower(strings.TrimSpace(raw))
		if seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "duckduckgo":
			reg.Register(NewDuckDuckGo(cfg.Client))
		case "bing":
			reg.Register(NewBing(cfg.Client))
		case "mojeek":
			reg.Register(NewMojeek(cfg.Client))
		case "searxng":
			e := NewSearxng(cfg.Client)
			if cfg.SearxngURL != "" {
				e.Endpoint = cfg.SearxngURL
			}
			reg.Register(e)
		case "brave":
			if cfg.BraveAPIKey == "" {
				continue
			}
			reg.Register(NewBrave(cfg.Client, cfg.BraveAPIKey))
		default:
			return nil, fmt.Errorf("serp: unknown engine %q", raw)
		}
	}
	return reg, nil
}

// base carries what every adapter shares.
type base struct {
	Endpoint  string
	client    *httpclient.Client
	detectors []bypass.Detector
}

func newBase(c *httpclient.Client, endpoint string) base {
	if c == nil {
		// New only fails when a cookie jar is requested.
		c, _ = httpclient.New(httpclient.Config{Timeout: DefaultTimeout})
	}
	return base{Endpoint: endpoint, client: c, detectors: bypass.DefaultDetectors()}
}

// fetch sends req with headers applied and returns the body of a 2xx,
// non-challenge response.
func (b base) fetch(ctx context.Context, engine string, req *http.Request, headers map[string]string) ([]byte, error) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", engine, err)
	}
	body, err := httpclient.ReadBody(resp, maxBody)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", engine, err)
	}

	if src, blocked := bypass.Detect(bypass.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, b.detectors); blocked {
		metrics.BotDetections.WithLabelValues(src).Inc()
		return nil, fmt.Errorf("%s: %w (%s)", engine, ErrChallenge, src)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w %d", engine, ErrStatus, resp.StatusCode)
	}
	return body, nil
}

// overlay copies headers and sets fixed on top.
func overlay(headers, fixed map[string]string) map[string]string {
	merged := make(map[string]string, len(headers)+len(fixed))
	for k, v := range headers {
		merged[k] = v
	}
	for k, v := range fixed {
		merged[k] = v
	}
	return merged
}

func parseHTML(engine string, body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", engine, ErrMalformed, err)
	}
	return doc, nil
}

// newCandidate cleans one raw result. ok is false when the title or link is
// missing.
func newCandidate(title, link, snippet string) (lead.Candidate, bool) {
	title = CleanTitle(collapse(title))
	link = UnwrapLink(link)
	if title == "" || link == "" {
		return lead.Candidate{}, false
	}
	return lead.Candidate{Title: title, Link: link, Snippet: CleanSnippet(snippet)}, true
}
