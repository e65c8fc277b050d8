package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/pkg/httpclient"
)

const mojeekEndpoint = "https://www.mojeek.com/search"

// Mojeek scrapes the Mojeek results page.
type Mojeek struct{ base }

func NewMojeek(c *httpclient.Client) *Mojeek {
	return &Mojeek{newBase(c, mojeekEndpoint)}
}

func (m *Mojeek) Name() string { return "mojeek" }

func (m *Mojeek) Search(ctx context.Context, query string, headers map[string]string) ([]lead.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Endpoint+"?"+url.Values{"q": {query}}.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("mojeek: %w", err)
	}

	body, err := m.fetch(ctx, m.Name(), req, headers)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(m.Name(), body)
	if err != nil {
		return nil, err
	}

	var out []lead.Candidate
	doc.Find("ul.results-standard li").Each(func(_ int, s *goquery.Selection) {
		a := s.Find("a.title").First()
		href, _ := a.Attr("href")
		if c, ok := newCandidate(a.Text(), href, s.Find("p.s").First().Text()); ok {
			out = append(out, c)
		}
	})
	return out, nil
}
