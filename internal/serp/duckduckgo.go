package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/pkg/httpclient"
)

const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the HTML-only DuckDuckGo frontend.
type DuckDuckGo struct{ base }

func NewDuckDuckGo(c *httpclient.Client) *DuckDuckGo {
	return &DuckDuckGo{newBase(c, duckDuckGoEndpoint)}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, headers map[string]string) ([]lead.Candidate, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := d.fetch(ctx, d.Name(), req, headers)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(d.Name(), body)
	if err != nil {
		return nil, err
	}

	var out []lead.Candidate
	doc.Find(".result").Each(func(_ int, s *goquery.Selection) {
		if s.HasClass("result--ad") {
			return
		}
		a := s.Find("a.result__a").First()
		href, _ := a.Attr("href")
		if c, ok := newCandidate(a.Text(), href, s.Find(".result__snippet").First().Text()); ok {
			out = append(out, c)
		}
	})
	return out, nil
}
