// Package proxy rotates outbound proxies and benches the ones that keep failing.
package proxy

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// ErrUnknown is returned when reporting on a proxy the pool does not hold.
var ErrUnknown = errors.New("proxy: not in pool")

type entry struct {
	url       *url.URL
	failures  int
	successes int
	benchedAt time.Time
	benched   bool
}

// Pool is a round-robin set of proxies with failure cooldown.
// It is safe for concurrent use.
type Pool struct {
	mu          sync.Mutex
	entries     []*entry
	byKey       map[string]*entry
	next        int
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time
}

// Config tunes the health tracking of a Pool.
type Config struct {
	// MaxFailures consecutive failures bench a proxy. Default 3.
	MaxFailures int
	// Cooldown is how long a benched proxy sits out. Default 5m.
	Cooldown time.Duration
}

// NewPool creates an empty pool.
func NewPool(cfg Config) *Pool {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 5 * time.Minute
	}
	return &Pool{
		byKey:       make(map[string]*entry),
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
		now:         time.Now,
	}
}

// Add parses raw proxy URLs (scheme defaults to http) and appends them.
// Duplicates are ignored.
func (p *Pool) Add(raws ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, raw := range raws {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "://") {
			raw = "http://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("proxy: parse %q: %w", raw, err)
		}
		if u.Host == "" {
			return fmt.Errorf("proxy: %q has no host", raw)
		}
		key := u.String()
		if _, ok := p.byKey[key]; ok {
			continue
		}
		e := &entry{url: u}
		p.entries = append(p.entries, e)
		p.byKey[key] = e
	}
	return nil
}

// LoadFile adds one proxy per line from path. Blank lines and lines starting
// with '#' are skipped.
func (p *Pool) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("proxy: open %s: %w", path, err)
	}
	defer f.Close()

	var raws []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raws = append(raws, line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("proxy: read %s: %w", path, err)
	}
	return p.Add(raws...)
}

// Len returns the number of proxies held, benched or not.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Next returns the next usable proxy, or nil when the pool is empty or every
// proxy is benched.
func (p *Pool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for range p.entries {
		e := p.entries[p.next]
		p.next = (p.next + 1) % len(p.entries)

		if e.benched && now.Sub(e.benchedAt) >= p.cooldown {
			e.benched = false
			e.failures = 0
		}
		if !e.benched {
			return e.url
		}
	}
	return nil
}

// Report records the outcome of a request made through u. A nil err counts as
// a success and forgives one earlier failure.
func (p *Pool) Report(u *url.URL, err error) error {
	if u == nil {
		return ErrUnknown
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.byKey[u.String()]
	if !ok {
		return ErrUnknown
	}
	if err == nil {
		e.successes++
		if e.failures > 0 {
			e.failures--
		}
		return nil
	}
	e.failures++
	if e.failures >= p.maxFailures {
		e.benched = true
		e.benchedAt = p.now()
	}
	return nil
}
