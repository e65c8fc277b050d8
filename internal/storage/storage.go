// Package storage defines the persistence contract for accepted leads and the
// helpers shared by its backends.
package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/FranksOps/leadburr/internal/lead"
)

// ErrDuplicate is returned by Create when a record with the same link exists.
var ErrDuplicate = errors.New("storage: link already stored")

// LinkChecker answers whether a link has already been stored.
type LinkChecker interface {
	ExistsByLink(ctx context.Context, link string) (bool, error)
}

// LeadStore persists accepted lead records.
type LeadStore interface {
	LinkChecker
	// Create stores rec, returning ErrDuplicate if its link is already present.
	Create(ctx context.Context, rec *lead.Record) error
	// List returns stored records newest first.
	List(ctx context.Context, filter Filter) ([]*lead.Record, error)
	Close() error
}

// Filter narrows List results. Zero fields match everything; string fields
// compare case-insensitively.
type Filter struct {
	Client   string
	Category string
	Country  string
	Since    *time.Time
	Limit    int
	Offset   int
}

// Match reports whether rec passes the filter's predicates (Limit and Offset
// are not considered).
func (f Filter) Match(rec *lead.Record) bool {
	if f.Client != "" && !strings.EqualFold(rec.Client, f.Client) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(rec.Category, f.Category) {
		return false
	}
	if f.Country != "" && !strings.EqualFold(rec.Country, f.Country) {
		return false
	}
	if f.Since != nil && rec.CreatedAt.Before(*f.Since) {
		return false
	}
	return true
}

// Apply filters recs in memory, orders them newest first and pages the
// result. Backends without a query engine use it.
func (f Filter) Apply(recs []*lead.Record) []*lead.Record {
	out := make([]*lead.Record, 0, len(recs))
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []*lead.Record{}
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}
