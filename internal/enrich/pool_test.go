package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FranksOps/leadburr/internal/fingerprint"
	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/scraper"
)

type fetchFunc func(ctx context.Context, url string) (*scraper.Page, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (*scraper.Page, error) { return f(ctx, url) }

func TestRun_WithScraper(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gym", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Iron Gym, Toronto, Canada</p>
<a href="mailto:coach@irongym.ca">mail</a>
<span class="city">Toronto</span></body></html>`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f, err := scraper.NewFetcher(scraper.FetchConfig{Fingerprint: fingerprint.ProfileGo})
	require.NoError(t, err)

	pool := &Pool{Fetcher: f}
	out, err := pool.Run(context.Background(), []lead.Candidate{
		{Title: "Iron", Link: ts.URL + "/gym"},
		{Title: "Broken", Link: ts.URL + "/broken"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].Fetched)
	assert.Equal(t, "coach@irongym.ca", out[0].Email)
	assert.Equal(t, "Toronto", out[0].City)
	assert.Contains(t, out[0].PageText, "Canada")

	assert.False(t, out[1].Fetched)
	assert.Empty(t, out[1].Email)
	assert.Equal(t, "Broken", out[1].Title)
}

func TestRun_PreservesOrderAndBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	fetch := fetchFunc(func(ctx context.Context, url string) (*scraper.Page, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return &scraper.Page{Body: []byte(`<p>call +1 416 555 0100 ` + url + `</p>`)}, nil
	})

	var cands []lead.Candidate
	for i := 0; i < 12; i++ {
		cands = append(cands, lead.Candidate{Link: fmt.Sprintf("https://c%d.example/", i)})
	}

	pool := &Pool{Fetcher: fetch, Workers: 3}
	out, err := pool.Run(context.Background(), cands)
	require.NoError(t, err)
	for i, e := range out {
		assert.Equal(t, cands[i].Link, e.Link)
		assert.Contains(t, e.PageText, cands[i].Link)
		assert.NotEmpty(t, e.Phone)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRun_KeepsExistingCity(t *testing.T) {
	fetch := fetchFunc(func(context.Context, string) (*scraper.Page, error) {
		return &scraper.Page{Body: []byte(`<meta property="og:locality" content="Mississauga">`)}, nil
	})
	pool := &Pool{Fetcher: fetch}
	out, err := pool.Run(context.Background(), []lead.Candidate{
		{Link: "https://a.example/", City: "Toronto"},
		{Link: "https://b.example/"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Toronto", out[0].City)
	assert.Equal(t, "Mississauga", out[1].City)
}

func TestRun_PerFetchTimeout(t *testing.T) {
	fetch := fetchFunc(func(ctx context.Context, string) (*scraper.Page, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	pool := &Pool{Fetcher: fetch, Timeout: 20 * time.Millisecond}
	out, err := pool.Run(context.Background(), []lead.Candidate{{Link: "https://slow.example/"}})
	require.NoError(t, err)
	assert.False(t, out[0].Fetched)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	var once sync.Once
	fetch := fetchFunc(func(context.Context, string) (*scraper.Page, error) {
		calls.Add(1)
		once.Do(cancel)
		return nil, errors.New("cancelled mid-run")
	})

	cands := make([]lead.Candidate, 20)
	for i := range cands {
		cands[i].Link = fmt.Sprintf("https://c%d.example/", i)
	}

	pool := &Pool{Fetcher: fetch, Workers: 1}
	out, err := pool.Run(ctx, cands)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, out, 20)
	assert.Less(t, calls.Load(), int32(20))
}
