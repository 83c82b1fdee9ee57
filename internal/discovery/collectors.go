// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"net/http"

	"github.com/pdiddy/pdf-pipeline/internal/ratelimit"
	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// defaultRequestsPerMinute holds the per-collector rate limits used when
// the configuration does not override them. The arXiv export API asks for
// one request every three seconds; the others tolerate one per second.
var defaultRequestsPerMinute = map[string]float64{
	"arxiv":            20,
	"unpaywall":        60,
	"openalex":         60,
	"semantic_scholar": 60,
	"landing_page":     30,
}

// limiterFor builds the rate limiter for a named collector, honoring a
// configured override.
func limiterFor(cfg types.DiscoveryConfig, name string) *ratelimit.Limiter {
	rpm, ok := cfg.RequestsPerMinute[name]
	if !ok {
		rpm = defaultRequestsPerMinute[name]
	}
	return ratelimit.PerMinute(rpm)
}

// DefaultCollectors constructs the enabled collectors from configuration,
// each with its own rate limiter sharing the given HTTP client. The
// returned order (arxiv, unpaywall, openalex, semantic_scholar,
// landing_page) is the registration order and therefore the fallback
// priority when no priority lists are configured.
func DefaultCollectors(cfg types.DiscoveryConfig, client *http.Client) []Collector {
	var collectors []Collector

	if cfg.EnableArxiv {
		collectors = append(collectors, &ArxivCollector{
			Client:    client,
			Limiter:   limiterFor(cfg, "arxiv"),
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.EnableUnpaywall {
		collectors = append(collectors, &UnpaywallCollector{
			Client:    client,
			Limiter:   limiterFor(cfg, "unpaywall"),
			Email:     cfg.UnpaywallEmail,
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.EnableOpenAlex {
		collectors = append(collectors, &OpenAlexCollector{
			Client:    client,
			Limiter:   limiterFor(cfg, "openalex"),
			Email:     cfg.OpenAlexEmail,
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.EnableSemanticScholar {
		collectors = append(collectors, &SemanticScholarCollector{
			Client:    client,
			Limiter:   limiterFor(cfg, "semantic_scholar"),
			APIKey:    cfg.SemanticScholarAPIKey,
			UserAgent: cfg.UserAgent,
		})
	}
	if cfg.EnableLandingPage {
		collectors = append(collectors, &LandingPageCollector{
			Client:    client,
			Limiter:   limiterFor(cfg, "landing_page"),
			UserAgent: cfg.UserAgent,
		})
	}

	return collectors
}
