package serp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/pkg/httpclient"
)

const braveEndpoint = "https://api.search.brave.com/res/v1/web/search"

// Brave calls the Brave Search web API. It needs a subscription token.
type Brave struct {
	base
	apiKey string
}

func NewBrave(c *httpclient.Client, apiKey string) *Brave {
	return &Brave{base: newBase(c, braveEndpoint), apiKey: apiKey}
}

func (b *Brave) Name() string { return "brave" }

func (b *Brave) Search(ctx context.Context, query string, headers map[string]string) ([]lead.Candidate, error) {
	params := url.Values{"q": {query}, "count": {"20"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("brave: %w", err)
	}

	body, err := b.fetch(ctx, b.Name(), req, headers)
	if err != nil {
		return nil, err
	}
	return parseJSONResults(b.Name(), body, "web.results", "url", "description")
}

// fetch sets the API headers after caller headers so a browser header map
// cannot clobber them.
func (b *Brave) fetch(ctx context.Context, engine string, req *http.Request, headers map[string]string) ([]byte, error) {
	return b.base.fetch(ctx, engine, req, overlay(headers, map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": b.apiKey,
	}))
}
