package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/pkg/httpclient"
)

const searxngEndpoint = "https://searx.be/search"

// Searxng queries a SearXNG instance's JSON API.
type Searxng struct{ base }

func NewSearxng(c *httpclient.Client) *Searxng {
	return &Searxng{newBase(c, searxngEndpoint)}
}

func (s *Searxng) Name() string { return "searxng" }

func (s *Searxng) Search(ctx context.Context, query string, headers map[string]string) ([]lead.Candidate, error) {
	params := url.Values{"q": {query}, "format": {"json"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("searxng: %w", err)
	}
	body, err := s.fetch(ctx, s.Name(), req, overlay(headers, map[string]string{"Accept": "application/json"}))
	if err != nil {
		return nil, err
	}
	return parseJSONResults(s.Name(), body, "results", "url", "content")
}

// parseJSONResults reads an array of {title, <link>, <snippet>} objects at
// path. A valid document without the array yields no results.
func parseJSONResults(engine string, body []byte, path, linkKey, snippetKey string) ([]lead.Candidate, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w: invalid json", engine, ErrMalformed)
	}

	var out []lead.Candidate
	gjson.GetBytes(body, path).ForEach(func(_, item gjson.Result) bool {
		c, ok := newCandidate(item.Get("title").String(), item.Get(linkKey).String(), item.Get(snippetKey).String())
		if ok {
			out = append(out, c)
		}
		return true
	})
	return out, nil
}
