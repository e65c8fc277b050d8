package pipeline

import (
	"context"
	"log/slog"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

// Verdict is the classifier's decision for one enriched candidate.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedNoContact
	RejectedGeo
	RejectedDuplicate
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedNoContact:
		return "rejected_no_contact"
	case RejectedGeo:
		return "rejected_geo"
	case RejectedDuplicate:
		return "rejected_duplicate"
	}
	return "unknown"
}

// Classifier decides which enriched candidates become leads.
type Classifier struct {
	// Store is consulted once more right before acceptance; nil skips the
	// check.
	Store  storage.LinkChecker
	Logger *slog.Logger
}

// Classify accepts e when it has contact details, passed geo validation and
// is not yet stored. The record is only meaningful for Accepted.
func (c *Classifier) Classify(ctx context.Context, req lead.Request, e lead.Enriched) (lead.Record, Verdict) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if !e.HasContact() {
		logger.Debug("rejected: no contact", "link", e.Link)
		return lead.Record{}, RejectedNoContact
	}
	if !e.CountryValid {
		logger.Debug("rejected: geography mismatch", "link", e.Link, "country", req.Country)
		return lead.Record{}, RejectedGeo
	}
	if c.Store != nil {
		exists, err := c.Store.ExistsByLink(ctx, e.Link)
		if err != nil {
			logger.Warn("store lookup failed, treating as new", "link", e.Link, "error", err)
		} else if exists {
			logger.Debug("rejected: already stored", "link", e.Link)
			return lead.Record{}, RejectedDuplicate
		}
	}
	return lead.NewRecord(req, e), Accepted
}
