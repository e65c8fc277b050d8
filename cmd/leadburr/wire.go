package main

import (
	"fmt"
	"log/slog"

	"github.com/FranksOps/leadburr/internal/aggregate"
	"github.com/FranksOps/leadburr/internal/config"
	"github.com/FranksOps/leadburr/internal/enrich"
	"github.com/FranksOps/leadburr/internal/extract"
	"github.com/FranksOps/leadburr/internal/fingerprint"
	"github.com/FranksOps/leadburr/internal/geo"
	"github.com/FranksOps/leadburr/internal/pipeline"
	"github.com/FranksOps/leadburr/internal/scraper"
	"github.com/FranksOps/leadburr/internal/serp"
	"github.com/FranksOps/leadburr/internal/storage"
	"github.com/FranksOps/leadburr/pkg/httpclient"
	"github.com/FranksOps/leadburr/pkg/proxy"
	"github.com/FranksOps/leadburr/pkg/ratelimit"
	"github.com/FranksOps/leadburr/pkg/useragent"
)

// buildPipeline assembles every stage from cfg around store, which may be nil.
func buildPipeline(cfg *config.Config, store storage.LeadStore, logger *slog.Logger) (*pipeline.Pipeline, error) {
	profile, err := fingerprint.ParseProfile(cfg.HTTP.Fingerprint)
	if err != nil {
		return nil, err
	}
	uas := useragent.NewPool(cfg.HTTP.UserAgents)

	transport, err := fingerprint.Transport(profile, fingerprint.Options{})
	if err != nil {
		return nil, err
	}
	client, err := httpclient.New(httpclient.Config{
		Timeout:   cfg.Search.Timeout,
		Transport: transport,
	})
	if err != nil {
		return nil, err
	}

	reg, err := serp.NewRegistryFromConfig(serp.RegistryConfig{
		Engines:     cfg.Search.Engines,
		Client:      client,
		SearxngURL:  cfg.Search.SearxngURL,
		BraveAPIKey: cfg.Search.BraveAPIKey,
	})
	if err != nil {
		return nil, err
	}
	engines := reg.Engines()
	if len(engines) == 0 {
		return nil, fmt.Errorf("no usable search engines in %v", cfg.Search.Engines)
	}

	var proxies *proxy.Pool
	if len(cfg.Enrich.Proxies) > 0 || cfg.Enrich.ProxyFile != "" {
		proxies = proxy.NewPool(proxy.Config{})
		if err := proxies.Add(cfg.Enrich.Proxies...); err != nil {
			return nil, err
		}
		if cfg.Enrich.ProxyFile != "" {
			if err := proxies.LoadFile(cfg.Enrich.ProxyFile); err != nil {
				return nil, err
			}
		}
	}

	fetcher, err := scraper.NewFetcher(scraper.FetchConfig{
		Timeout:       cfg.Enrich.Timeout,
		ProxyPool:     proxies,
		UAPool:        uas,
		Fingerprint:   profile,
		Limiter:       ratelimit.NewLimiter(cfg.Enrich.RPS, cfg.Enrich.Burst),
		RespectRobots: cfg.Enrich.RespectRobots,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	pref, err := extract.ParseEmailPreference(cfg.Enrich.EmailPreference)
	if err != nil {
		return nil, err
	}

	return &pipeline.Pipeline{
		Aggregator: &aggregate.Aggregator{
			Engines:  engines,
			Denylist: aggregate.DefaultDenylist(cfg.Search.Denylist...),
			Delay:    ratelimit.NewJitter(cfg.Search.MinDelay, cfg.Search.MaxDelay),
			Target:   cfg.Search.Target,
			Cap:      cfg.Search.Cap,
			Headers:  uas.Headers,
			Logger:   logger,
		},
		Pool: &enrich.Pool{
			Fetcher:   fetcher,
			Extractor: extract.Extractor{EmailPreference: pref},
			Workers:   cfg.Enrich.Workers,
			Timeout:   cfg.Enrich.Timeout,
			Logger:    logger,
		},
		Validator: geo.NewValidator(),
		Store:     store,
		Logger:    logger,
	}, nil
}
