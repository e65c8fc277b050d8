// Package enrich visits candidate pages with bounded concurrency and fills in
// the extracted signals.
package enrich

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FranksOps/leadburr/internal/extract"
	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/scraper"
)

const (
	DefaultWorkers = 3
	DefaultTimeout = 5 * time.Second
)

// Fetcher retrieves one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Page, error)
}

// Pool enriches candidates concurrently.
type Pool struct {
	Fetcher   Fetcher
	Extractor extract.Extractor
	Workers   int
	// Timeout bounds each page fetch.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Run enriches cands. The result has one entry per candidate in input order;
// candidates whose fetch fails stay unenriched. On cancellation no new
// fetches start and ctx.Err() is returned with the partial result.
func (p *Pool) Run(ctx context.Context, cands []lead.Candidate) ([]lead.Enriched, error) {
	out := make([]lead.Enriched, len(cands))
	for i, c := range cands {
		out[i] = lead.Enriched{Candidate: c}
	}

	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range out {
		if ctx.Err() != nil {
			break
		}
		// each task owns out[i]
		e := &out[i]
		g.Go(func() error {
			p.enrich(ctx, e)
			return nil
		})
	}
	_ = g.Wait()

	return out, ctx.Err()
}

func (p *Pool) enrich(ctx context.Context, e *lead.Enriched) {
	if ctx.Err() != nil {
		return
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := p.Fetcher.Fetch(fctx, e.Link)
	if err != nil {
		logger.Debug("enrichment fetch failed", "link", e.Link, "error", err)
		return
	}

	sig := p.Extractor.Extract(page.Body)
	e.Fetched = true
	e.Email = sig.Email
	e.Phone = sig.Phone
	e.HasTechFootprint = sig.HasTechFootprint
	e.PageText = sig.Text
	if e.City == "" {
		e.City = sig.City
	}
}
