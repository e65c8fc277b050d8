// Package lead defines the records that flow through the discovery pipeline:
// raw search candidates, enriched candidates, and accepted lead records.
package lead

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request is a single discovery submission.
type Request struct {
	Category string `json:"category"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	// Client is used only for attribution on stored records.
	Client string `json:"client,omitempty"`
}

// Normalize returns a copy of the request with every field trimmed.
func (r Request) Normalize() Request {
	return Request{
		Category: strings.TrimSpace(r.Category),
		City:     strings.TrimSpace(r.City),
		Country:  strings.TrimSpace(r.Country),
		Client:   strings.TrimSpace(r.Client),
	}
}

// Candidate is a search result item produced by an engine adapter.
// Link is the identity key for the rest of the pipeline.
type Candidate struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Enriched is a Candidate plus the signals extracted from its page.
type Enriched struct {
	Candidate

	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	HasTechFootprint bool   `json:"has_tech_footprint"`
	CountryValid     bool   `json:"country_valid"`

	// Fetched reports whether the page was retrieved at all.
	Fetched bool `json:"-"`
	// PageText is the visible page text, kept only for geo validation.
	PageText string `json:"-"`
}

// HasContact reports whether an email or phone was extracted.
func (e Enriched) HasContact() bool {
	return e.Email != "" || e.Phone != ""
}

// Record is an accepted lead, the only entity handed to storage.
type Record struct {
	ID               string    `json:"id"`
	Client           string    `json:"client,omitempty"`
	Category         string    `json:"category"`
	City             string    `json:"city,omitempty"`
	Country          string    `json:"country,omitempty"`
	Title            string    `json:"title"`
	Link             string    `json:"link"`
	Snippet          string    `json:"snippet,omitempty"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	HasTechFootprint bool      `json:"has_tech_footprint"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewRecord builds a Record from an enriched candidate for the given request.
func NewRecord(req Request, e Enriched) Record {
	country := e.Country
	if country == "" {
		country = req.Country
	}
	return Record{
		ID:               uuid.New().String(),
		Client:           req.Client,
		Category:         req.Category,
		City:             e.City,
		Country:          country,
		Title:            e.Title,
		Link:             e.Link,
		Snippet:          e.Snippet,
		Email:            e.Email,
		Phone:            e.Phone,
		HasTechFootprint: e.HasTechFootprint,
		CreatedAt:        time.Now().UTC(),
	}
}

// Result is what a pipeline run hands back to its caller.
type Result struct {
	Leads []Record `json:"leads"`
	// Total is the number of accepted leads.
	Total int `json:"total"`
	// Saved counts leads newly written to the store.
	Saved int `json:"saved"`
	// Skipped counts candidates that already existed in the store.
	Skipped int `json:"skipped"`
}
