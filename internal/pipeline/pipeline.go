// Package pipeline runs one discovery request end to end: aggregate
// candidates, enrich them, validate geography, classify and persist.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/FranksOps/leadburr/internal/aggregate"
	"github.com/FranksOps/leadburr/internal/enrich"
	"github.com/FranksOps/leadburr/internal/geo"
	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/metrics"
	"github.com/FranksOps/leadburr/internal/storage"
)

// ErrInvalidRequest is the only error Run returns for a live context.
var ErrInvalidRequest = errors.New("pipeline: category is required")

// Pipeline wires the stages together. Aggregator and Pool are required;
// a nil Validator uses the built-in country table and a nil Store disables
// deduplication against past runs and persistence.
type Pipeline struct {
	Aggregator *aggregate.Aggregator
	Pool       *enrich.Pool
	Validator  *geo.Validator
	Store      storage.LeadStore
	Logger     *slog.Logger
}

// Run processes req. Backend failures never surface as errors; they only
// shrink the result. Cancellation returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context, req lead.Request) (*lead.Result, error) {
	req = req.Normalize()
	if req.Category == "" {
		return nil, ErrInvalidRequest
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("category", req.Category, "city", req.City, "country", req.Country)
	start := time.Now()

	agg := *p.Aggregator
	if agg.Store == nil && p.Store != nil {
		agg.Store = p.Store
	}
	if agg.Logger == nil {
		agg.Logger = logger
	}

	outcome, err := agg.Collect(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("aggregation complete", "candidates", len(outcome.Candidates), "duplicates", outcome.Duplicates)

	enriched, err := p.Pool.Run(ctx, outcome.Candidates)
	if err != nil {
		return nil, err
	}

	validator := p.Validator
	if validator == nil {
		validator = geo.NewValidator()
	}
	for i := range enriched {
		validator.Apply(req.Country, &enriched[i])
	}

	classifier := &Classifier{Logger: logger}
	if p.Store != nil {
		classifier.Store = p.Store
	}

	res := &lead.Result{Leads: []lead.Record{}, Skipped: outcome.Duplicates}
	for _, e := range enriched {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, verdict := classifier.Classify(ctx, req, e)
		if verdict != Accepted {
			if verdict == RejectedDuplicate {
				res.Skipped++
			}
			metrics.LeadOutcomes.WithLabelValues(verdict.String()).Inc()
			continue
		}

		if p.Store == nil {
			res.Leads = append(res.Leads, rec)
			continue
		}

		err := p.Store.Create(ctx, &rec)
		switch {
		case err == nil:
			res.Saved++
			res.Leads = append(res.Leads, rec)
			metrics.LeadOutcomes.WithLabelValues("saved").Inc()
		case errors.Is(err, storage.ErrDuplicate):
			// another run stored it between the checks and now
			res.Skipped++
			metrics.LeadOutcomes.WithLabelValues("duplicate").Inc()
		default:
			logger.Error("failed to save lead", "link", rec.Link, "error", err)
			res.Leads = append(res.Leads, rec)
			metrics.LeadOutcomes.WithLabelValues("failed").Inc()
		}
	}
	res.Total = len(res.Leads)

	logger.Info("discovery complete",
		"leads", res.Total, "saved", res.Saved, "skipped", res.Skipped,
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}
