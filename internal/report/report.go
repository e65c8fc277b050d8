// Package report renders discovery run summaries and lead exports.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/template"
	"time"

	"github.com/FranksOps/leadburr/internal/lead"
)

// Summary describes a single discovery run.
type Summary struct {
	Category      string        `json:"category"`
	City          string        `json:"city,omitempty"`
	Country       string        `json:"country,omitempty"`
	Client        string        `json:"client,omitempty"`
	Total         int           `json:"total"`
	Saved         int           `json:"saved"`
	Skipped       int           `json:"skipped"`
	WithEmail     int           `json:"with_email"`
	WithPhone     int           `json:"with_phone"`
	WithFootprint int           `json:"with_footprint"`
	Duration      time.Duration `json:"duration_ns"`
	Leads         []lead.Record `json:"leads"`
}

// Summarize builds the summary for res. A nil result yields an empty one.
func Summarize(req lead.Request, res *lead.Result, duration time.Duration) Summary {
	s := Summary{
		Category: req.Category,
		City:     req.City,
		Country:  req.Country,
		Client:   req.Client,
		Duration: duration,
		Leads:    []lead.Record{},
	}
	if res == nil {
		return s
	}

	s.Total, s.Saved, s.Skipped = res.Total, res.Saved, res.Skipped
	s.Leads = append(s.Leads, res.Leads...)
	for _, r := range res.Leads {
		if r.Email != "" {
			s.WithEmail++
		}
		if r.Phone != "" {
			s.WithPhone++
		}
		if r.HasTechFootprint {
			s.WithFootprint++
		}
	}
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("report: write json: %w", err)
	}
	return nil
}

const textTmpl = `Lead Discovery Summary
----------------------
Category:   {{.Category}}
Location:   {{if .City}}{{.City}}{{else}}-{{end}}, {{if .Country}}{{.Country}}{{else}}-{{end}}
{{- if .Client}}
Client:     {{.Client}}
{{- end}}
Duration:   {{.Duration}}

Leads:      {{.Total}} ({{.Saved}} saved, {{.Skipped}} already known)
With email: {{.WithEmail}}
With phone: {{.WithPhone}}
Elfsight:   {{.WithFootprint}}
{{range .Leads}}
  {{.Title}}
    {{.Link}}
    {{- if .Email}}
    email: {{.Email}}
    {{- end}}
    {{- if .Phone}}
    phone: {{.Phone}}
    {{- end}}
{{- else}}
  None
{{- end}}
`

var textReport = template.Must(template.New("textReport").Parse(textTmpl))

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	if err := textReport.Execute(w, summary); err != nil {
		return fmt.Errorf("report: write text: %w", err)
	}
	return nil
}

// LeadColumns is the export column order.
var LeadColumns = []string{"Title", "Link", "Description", "Category", "City", "Country", "Email", "Phone", "Elfsight"}

// WriteLeadsCSV writes one row per record under a LeadColumns header.
func WriteLeadsCSV(w io.Writer, recs []*lead.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LeadColumns); err != nil {
		return fmt.Errorf("report: write csv: %w", err)
	}
	for _, r := range recs {
		row := []string{
			r.Title, r.Link, r.Snippet, r.Category, r.City, r.Country,
			r.Email, r.Phone, strconv.FormatBool(r.HasTechFootprint),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: write csv: %w", err)
	}
	return nil
}

// WriteLeadsJSON writes recs as an indented JSON array.
func WriteLeadsJSON(w io.Writer, recs []*lead.Record) error {
	if recs == nil {
		recs = []*lead.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("report: write json: %w", err)
	}
	return nil
}
