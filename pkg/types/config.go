package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pdf-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// DiscoveryConfig holds settings for the discovery stage.
type DiscoveryConfig struct {
	HTTPConfig `yaml:",inline"`

	// VenuePriorities maps a venue name to the ordered list of collector
	// names to try for papers from that venue. Collector names not present
	// in the roster are skipped.
	VenuePriorities map[string][]string `json:"venue_priorities,omitempty" yaml:"venue_priorities,omitempty"`

	// DefaultPriority is the collector order used when a paper's venue has
	// no entry in VenuePriorities. When empty, registration order is used.
	DefaultPriority []string `json:"default_priority,omitempty" yaml:"default_priority,omitempty"`

	// RequestsPerMinute overrides the per-collector rate limit, keyed by
	// collector name. Collectors not listed use their own defaults.
	RequestsPerMinute map[string]float64 `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty"`

	// EnableArxiv controls whether the arXiv collector is registered.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableUnpaywall controls whether the Unpaywall collector is registered.
	EnableUnpaywall bool `json:"enable_unpaywall" yaml:"enable_unpaywall"`

	// EnableOpenAlex controls whether the OpenAlex collector is registered.
	EnableOpenAlex bool `json:"enable_openalex" yaml:"enable_openalex"`

	// EnableSemanticScholar controls whether the Semantic Scholar collector
	// is registered.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// EnableLandingPage controls whether the landing-page scraper is
	// registered.
	EnableLandingPage bool `json:"enable_landing_page" yaml:"enable_landing_page"`

	// UnpaywallEmail is the polite-pool email required by Unpaywall.
	UnpaywallEmail string `json:"unpaywall_email,omitempty" yaml:"unpaywall_email,omitempty"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// CacheConfig holds settings for the local PDF cache.
type CacheConfig struct {
	// CacheDir is the directory holding cached PDFs and the metadata index.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// RemoteBaseURL is the base URL of the remote document store used to
	// re-fill the local cache. Empty disables the remote fallback.
	RemoteBaseURL string `json:"remote_base_url,omitempty" yaml:"remote_base_url,omitempty"`

	// TTL is the default staleness bound for cleanup (default 30 days).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory for extraction result files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MaxPages bounds how many pages the extractors read per document.
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// MinConfidence is the validator's minimum acceptable confidence.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// MinTextLength is the validator's minimum extracted text length.
	MinTextLength int `json:"min_text_length" yaml:"min_text_length"`

	// MinAffiliations is the validator's minimum affiliation count.
	MinAffiliations int `json:"min_affiliations" yaml:"min_affiliations"`

	// VisionAPIKey authenticates the cloud vision extractor. Empty
	// disables it.
	VisionAPIKey string `json:"vision_api_key,omitempty" yaml:"vision_api_key,omitempty"`

	// VisionCostPerPage is the per-page cost of the cloud vision API in
	// USD (default 0.0015).
	VisionCostPerPage float64 `json:"vision_cost_per_page" yaml:"vision_cost_per_page"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Discovery  DiscoveryConfig  `json:"discovery" yaml:"discovery"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
}
