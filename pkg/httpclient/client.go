// Package httpclient wraps net/http with the timeout, redirect, cookie and
// default-header policy shared by search engines and page fetches.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// DefaultMaxRedirects is used when Config.MaxRedirects is zero.
const DefaultMaxRedirects = 10

// Config defines the setup for the HTTP Client.
type Config struct {
	Timeout time.Duration
	// MaxRedirects caps followed redirects; 0 means DefaultMaxRedirects and a
	// negative value disables following entirely.
	MaxRedirects int
	UseCookieJar bool
	// Headers are set on every request that does not already carry them.
	Headers map[string]string
	// Transport, e.g. for proxies or uTLS fingerprinting.
	Transport http.RoundTripper
}

// Client wraps a standard http.Client.
type Client struct {
	*http.Client
	headers map[string]string
}

// New creates a new HTTP client based on the provided configuration.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}

	c := &http.Client{Timeout: cfg.Timeout}

	if cfg.MaxRedirects > 0 {
		limit := cfg.MaxRedirects
		c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= limit {
				return fmt.Errorf("httpclient: stopped after %d redirects", limit)
			}
			return nil
		}
	} else {
		c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	if cfg.UseCookieJar {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
		}
		c.Jar = jar
	}

	if cfg.Transport != nil {
		c.Transport = cfg.Transport
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &Client{Client: c, headers: headers}, nil
}

// Do executes req under ctx. ctx controls cancellation independently of the
// client timeout.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if ctx == nil {
		return nil, errors.New("httpclient: nil context")
	}

	r := req.Clone(ctx)
	for k, v := range c.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}

	resp, err := c.Client.Do(r)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s %s: %w", r.Method, r.URL.Redacted(), err)
	}
	return resp, nil
}

// ReadBody reads at most limit bytes of resp.Body and closes it. A limit <= 0
// reads everything.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()
	var r io.Reader = resp.Body
	if limit > 0 {
		r = io.LimitReader(resp.Body, limit)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return body, fmt.Errorf("httpclient: read body: %w", err)
	}
	return body, nil
}
