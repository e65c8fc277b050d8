// Package aggregate drives the search engines in priority order and merges
// their results into one deduplicated candidate list.
package aggregate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/metrics"
	"github.com/FranksOps/leadburr/internal/query"
	"github.com/FranksOps/leadburr/internal/serp"
	"github.com/FranksOps/leadburr/internal/storage"
	"github.com/FranksOps/leadburr/pkg/ratelimit"
)

const (
	DefaultTarget = 30
	DefaultCap    = 40
)

// Aggregator collects candidates for a request.
type Aggregator struct {
	Engines  []serp.Engine
	Store    storage.LinkChecker
	Denylist *Denylist
	// Delay runs before every engine call except the first.
	Delay ratelimit.Delayer
	// Target stops consulting further engines; Cap stops adding candidates.
	Target int
	Cap    int
	// Headers supplies the request headers for each engine call.
	Headers func() map[string]string
	Logger  *slog.Logger
}

// Outcome is what Collect found.
type Outcome struct {
	Candidates []lead.Candidate
	// Duplicates counts distinct links skipped because the store has them.
	Duplicates int
}

// Collect queries the engines sequentially. Engine failures are logged and
// skipped; only cancellation stops collection with an error, in which case
// the partial outcome is returned alongside ctx.Err().
func (a *Aggregator) Collect(ctx context.Context, req lead.Request) (Outcome, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	target, limit := a.Target, a.Cap
	if target <= 0 {
		target = DefaultTarget
	}
	if limit <= 0 {
		limit = DefaultCap
	}
	if limit < target {
		limit = target
	}
	delay := a.Delay
	if delay == nil {
		delay = ratelimit.None{}
	}

	variants := query.Variants(req.Category, req.City, req.Country)
	seen := make(map[string]struct{})
	var out Outcome
	calls := 0

	for _, eng := range a.Engines {
		if len(out.Candidates) >= target {
			break
		}

		for _, q := range variants {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			if calls > 0 {
				if err := delay.Wait(ctx); err != nil {
					return out, err
				}
			}
			calls++

			var headers map[string]string
			if a.Headers != nil {
				headers = a.Headers()
			}
			results, err := eng.Search(ctx, q, headers)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return out, ctxErr
				}
				metrics.EngineRequests.WithLabelValues(eng.Name(), "error").Inc()
				logger.Warn("engine search failed", "engine", eng.Name(), "query", q, "error", err)
				continue
			}
			if len(results) == 0 {
				metrics.EngineRequests.WithLabelValues(eng.Name(), "empty").Inc()
				logger.Debug("engine returned nothing", "engine", eng.Name(), "query", q)
				continue
			}
			metrics.EngineRequests.WithLabelValues(eng.Name(), "ok").Inc()
			metrics.EngineResults.WithLabelValues(eng.Name()).Add(float64(len(results)))

			added := 0
			for _, c := range results {
				if len(out.Candidates) >= limit {
					break
				}
				if a.admit(ctx, logger, req, c, seen, &out) {
					added++
				}
			}
			logger.Info("engine results", "engine", eng.Name(), "query", q, "results", len(results), "added", added, "total", len(out.Candidates))
			break
		}
	}

	return out, nil
}

// admit applies the link filters to c and appends it to out when it passes.
func (a *Aggregator) admit(ctx context.Context, logger *slog.Logger, req lead.Request, c lead.Candidate, seen map[string]struct{}, out *Outcome) bool {
	link := serp.UnwrapLink(strings.TrimSpace(c.Link))
	if !serp.IsAbsolute(link) {
		metrics.CandidatesRejected.WithLabelValues("relative").Inc()
		return false
	}
	// engine hosts are denylisted, but a redirect that failed to unwrap is
	// kept as is
	if a.Denylist.Blocked(link) && !serp.IsRedirector(link) {
		metrics.CandidatesRejected.WithLabelValues("denylist").Inc()
		return false
	}
	if _, ok := seen[link]; ok {
		metrics.CandidatesRejected.WithLabelValues("seen").Inc()
		return false
	}
	seen[link] = struct{}{}

	if a.Store != nil {
		exists, err := a.Store.ExistsByLink(ctx, link)
		if err != nil {
			logger.Warn("store lookup failed, treating as new", "link", link, "error", err)
		} else if exists {
			metrics.CandidatesRejected.WithLabelValues("stored").Inc()
			out.Duplicates++
			return false
		}
	}

	c.Link = link
	c.City = req.City
	c.Country = req.Country
	out.Candidates = append(out.Candidates, c)
	return true
}
