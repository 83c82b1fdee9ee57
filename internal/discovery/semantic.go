// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/pdf-pipeline/internal/httputil"
	"github.com/pdiddy/pdf-pipeline/internal/ratelimit"
	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,externalIds,openAccessPdf,year"

// SemanticScholarCollector searches the Semantic Scholar Graph API for an
// open-access PDF. The API key is optional; with one the remote grants a
// higher rate limit.
type SemanticScholarCollector struct {
	Client    *http.Client
	Limiter   *ratelimit.Limiter
	APIKey    string
	UserAgent string
}

// Name returns the collector identifier.
func (c *SemanticScholarCollector) Name() string { return "semantic_scholar" }

// Discover searches by title and returns the best-matching result's
// open-access PDF.
func (c *SemanticScholarCollector) Discover(ctx context.Context, paper types.Paper) (*types.PDFRecord, error) {
	if paper.Title == "" {
		return nil, &NoResultsError{Source: c.Name(), Query: ""}
	}

	c.Limiter.Wait()

	params := url.Values{
		"query":  {paper.Title},
		"limit":  {"10"},
		"fields": {semanticFields},
	}
	reqURL := semanticAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 1)
	if err != nil {
		return nil, &APIError{Source: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if err := checkResponse(c.Name(), resp); err != nil {
		return nil, err
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Body: "unparseable response", Err: err}
	}

	if len(sr.Data) == 0 {
		return nil, &NoResultsError{Source: c.Name(), Query: paper.Title}
	}

	bestSim := 0.0
	bestIdx := -1
	for i, p := range sr.Data {
		if p.OpenAccessPDF.URL == "" {
			continue
		}
		if sim := titleSimilarity(paper.Title, p.Title); sim > bestSim {
			bestSim, bestIdx = sim, i
		}
	}
	if bestIdx < 0 || bestSim < minTitleSimilarity {
		return nil, &NoPDFFoundError{Source: c.Name(), ResultsChecked: len(sr.Data)}
	}

	match := sr.Data[bestIdx]
	versionInfo := map[string]any{
		"paper_id": match.PaperID,
	}
	if match.Year > 0 {
		versionInfo["year"] = match.Year
	}
	if match.OpenAccessPDF.Status != "" {
		versionInfo["oa_status"] = match.OpenAccessPDF.Status
	}

	return &types.PDFRecord{
		PaperID:            paper.ID,
		PDFURL:             match.OpenAccessPDF.URL,
		Source:             c.Name(),
		DiscoveryTimestamp: time.Now().UTC(),
		ConfidenceScore:    bestSim,
		VersionInfo:        versionInfo,
		ValidationStatus:   types.StatusUnverified,
	}, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string         `json:"paperId"`
	Title         string         `json:"title"`
	Year          int            `json:"year"`
	OpenAccessPDF semanticOAPDF  `json:"openAccessPdf"`
	ExternalIDs   map[string]any `json:"externalIds"`
}

type semanticOAPDF struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}
