package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranksOps/leadburr/internal/fingerprint"
	"github.com/FranksOps/leadburr/pkg/proxy"
	"github.com/FranksOps/leadburr/pkg/ratelimit"
	"github.com/FranksOps/leadburr/pkg/useragent"
)

func newTestFetcher(t *testing.T, cfg FetchConfig) *Fetcher {
	t.Helper()
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileGo
	}
	f, err := NewFetcher(cfg)
	require.NoError(t, err)
	return f
}

func TestFetcher_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TestBrowser/1.0", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		w.Header().Set("X-Test", "true")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, FetchConfig{UAPool: useragent.NewPool([]string{"TestBrowser/1.0"})})

	page, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "<html>ok</html>", string(page.Body))
	assert.Equal(t, "true", page.Header.Get("X-Test"))
	assert.Equal(t, ts.URL, page.URL)
}

func TestFetcher_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	f := newTestFetcher(t, FetchConfig{Timeout: 20 * time.Millisecond})
	page, err := f.Fetch(context.Background(), ts.URL)
	assert.Error(t, err)
	assert.Nil(t, page)
}

func TestFetcher_Status(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	f := newTestFetcher(t, FetchConfig{})
	page, err := f.Fetch(context.Background(), ts.URL)
	assert.ErrorIs(t, err, ErrStatus)
	require.NotNil(t, page)
	assert.Equal(t, http.StatusNotFound, page.StatusCode)
}

func TestFetcher_Blocked(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "cloudflare")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Attention Required! | Cloudflare"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, FetchConfig{})
	_, err := f.Fetch(context.Background(), ts.URL)
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestFetcher_BodyCap(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
	}))
	defer ts.Close()

	f := newTestFetcher(t, FetchConfig{MaxBody: 100})
	page, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, page.Body, 100)
}

func TestFetcher_Proxy(t *testing.T) {
	// The "proxy" answers every request itself, so a teapot proves routing.
	proxyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer proxyServer.Close()

	pool := proxy.NewPool(proxy.Config{MaxFailures: 1, Cooldown: time.Second})
	require.NoError(t, pool.Add(proxyServer.URL))

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	f := newTestFetcher(t, FetchConfig{ProxyPool: pool})
	page, err := f.Fetch(context.Background(), target.URL)
	assert.ErrorIs(t, err, ErrStatus)
	require.NotNil(t, page)
	assert.Equal(t, http.StatusTeapot, page.StatusCode)
}

func TestFetcher_LimiterCancelled(t *testing.T) {
	f := newTestFetcher(t, FetchConfig{Limiter: ratelimit.NewLimiter(0.001, 1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_TLSFingerprint(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer ts.Close()

	f := newTestFetcher(t, FetchConfig{Fingerprint: fingerprint.ProfileChrome, InsecureSkipVerify: true})
	page, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "secure", string(page.Body))
}
