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

const bingEndpoint = "https://www.bing.com/search"

// Bing scrapes the Bing web results page.
type Bing struct{ base }

func NewBing(c *httpclient.Client) *Bing {
	return &Bing{newBase(c, bingEndpoint)}
}

func (b *Bing) Name() string { return "bing" }

func (b *Bing) Search(ctx context.Context, query string, headers map[string]string) ([]lead.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.Endpoint+"?"+url.Values{"q": {query}}.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("bing: %w", err)
	}

	body, err := b.fetch(ctx, b.Name(), req, headers)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(b.Name(), body)
	if err != nil {
		return nil, err
	}

	var out []lead.Candidate
	doc.Find("li.b_algo").Each(func(_ int, s *goquery.Selection) {
		a := s.Find("h2 a").First()
		href, _ := a.Attr("href")
		snippet := s.Find(".b_caption p").First().Text()
		if snippet == "" {
			snippet = s.Find("p").First().Text()
		}
		if c, ok := newCandidate(a.Text(), href, snippet); ok {
			out = append(out, c)
		}
	})
	return out, nil
}
