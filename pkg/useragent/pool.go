// Package useragent rotates desktop browser User-Agent strings and builds the
// header set that makes outbound requests look like a real browser visit.
package useragent

import (
	"math/rand/v2"
	"strings"
	"sync/atomic"
)

// Desktop is the built-in set of current desktop browser User-Agents.
var Desktop = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
}

// Pool is a fixed set of User-Agents. It is safe for concurrent use.
type Pool struct {
	uas     []string
	counter atomic.Uint64
}

// NewPool creates a pool from uas, falling back to Desktop when empty.
// Blank entries are dropped.
func NewPool(uas []string) *Pool {
	copied := make([]string, 0, len(uas))
	for _, ua := range uas {
		if ua = strings.TrimSpace(ua); ua != "" {
			copied = append(copied, ua)
		}
	}
	if len(copied) == 0 {
		copied = append(copied, Desktop...)
	}
	return &Pool{uas: copied}
}

// Next returns User-Agents round-robin.
func (p *Pool) Next() string {
	idx := p.counter.Add(1) - 1
	return p.uas[idx%uint64(len(p.uas))]
}

// Random returns a uniformly chosen User-Agent.
func (p *Pool) Random() string {
	return p.uas[rand.IntN(len(p.uas))]
}

// Len returns the number of User-Agents in the pool.
func (p *Pool) Len() int {
	return len(p.uas)
}

// BrowserHeaders returns the request headers a desktop browser sends for a
// top-level navigation, keyed by canonical header name.
func BrowserHeaders(ua string) map[string]string {
	return map[string]string{
		"User-Agent":                ua,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Upgrade-Insecure-Requests": "1",
	}
}

// Headers is BrowserHeaders with the next User-Agent from the pool.
func (p *Pool) Headers() map[string]string {
	return BrowserHeaders(p.Next())
}
