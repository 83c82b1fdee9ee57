// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"net/http"
	"testing"
	"time"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

func allEnabled() types.DiscoveryConfig {
	return types.DiscoveryConfig{
		EnableArxiv:           true,
		EnableUnpaywall:       true,
		EnableOpenAlex:        true,
		EnableSemanticScholar: true,
		EnableLandingPage:     true,
	}
}

func TestDefaultCollectorsOrder(t *testing.T) {
	collectors := DefaultCollectors(allEnabled(), http.DefaultClient)

	want := []string{"arxiv", "unpaywall", "openalex", "semantic_scholar", "landing_page"}
	if len(collectors) != len(want) {
		t.Fatalf("len(collectors) = %d, want %d", len(collectors), len(want))
	}
	for i, name := range want {
		if collectors[i].Name() != name {
			t.Errorf("collectors[%d] = %s, want %s", i, collectors[i].Name(), name)
		}
	}
}

func TestDefaultCollectorsDisabled(t *testing.T) {
	cfg := allEnabled()
	cfg.EnableUnpaywall = false
	cfg.EnableLandingPage = false

	collectors := DefaultCollectors(cfg, http.DefaultClient)
	for _, c := range collectors {
		if c.Name() == "unpaywall" || c.Name() == "landing_page" {
			t.Errorf("disabled collector %s still constructed", c.Name())
		}
	}
	if len(collectors) != 3 {
		t.Errorf("len(collectors) = %d, want 3", len(collectors))
	}
}

func TestLimiterForDefaults(t *testing.T) {
	// arXiv default is 20 req/min, one every three seconds.
	l := limiterFor(types.DiscoveryConfig{}, "arxiv")
	if l.Interval() != 3*time.Second {
		t.Errorf("arxiv interval = %v, want 3s", l.Interval())
	}
}

func TestLimiterForOverride(t *testing.T) {
	cfg := types.DiscoveryConfig{
		RequestsPerMinute: map[string]float64{"arxiv": 60},
	}
	l := limiterFor(cfg, "arxiv")
	if l.Interval() != time.Second {
		t.Errorf("arxiv interval = %v, want 1s with override", l.Interval())
	}
}
