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

// openAlexAPIBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlexCollector resolves papers through the OpenAlex Works API, by DOI
// when available, otherwise by title search.
type OpenAlexCollector struct {
	Client  *http.Client
	Limiter *ratelimit.Limiter
	// Email is sent as mailto parameter for polite pool access.
	Email     string
	UserAgent string
}

// Name returns the collector identifier.
func (c *OpenAlexCollector) Name() string { return "openalex" }

// Discover finds an open-access PDF location through OpenAlex.
func (c *OpenAlexCollector) Discover(ctx context.Context, paper types.Paper) (*types.PDFRecord, error) {
	if paper.DOI != "" {
		return c.byDOI(ctx, paper)
	}
	if paper.Title != "" {
		return c.byTitle(ctx, paper)
	}
	return nil, &NoResultsError{Source: c.Name(), Query: "paper has no DOI or title"}
}

func (c *OpenAlexCollector) byDOI(ctx context.Context, paper types.Paper) (*types.PDFRecord, error) {
	c.Limiter.Wait()

	reqURL := openAlexAPIBase + "/https://doi.org/" + url.PathEscape(paper.DOI)
	if c.Email != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.Email)
	}

	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NoResultsError{Source: c.Name(), Query: paper.DOI}
	}
	if err := checkResponse(c.Name(), resp); err != nil {
		return nil, err
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Body: "unparseable response", Err: err}
	}

	return c.recordFromWork(paper, work, 0.9, 1)
}

func (c *OpenAlexCollector) byTitle(ctx context.Context, paper types.Paper) (*types.PDFRecord, error) {
	c.Limiter.Wait()

	params := url.Values{
		"search":   {paper.Title},
		"per_page": {"5"},
	}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	resp, err := c.get(ctx, openAlexAPIBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(c.Name(), resp); err != nil {
		return nil, err
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Body: "unparseable response", Err: err}
	}

	if len(oar.Results) == 0 {
		return nil, &NoResultsError{Source: c.Name(), Query: paper.Title}
	}

	bestSim := 0.0
	bestIdx := -1
	for i, work := range oar.Results {
		if sim := titleSimilarity(paper.Title, work.Title); sim > bestSim {
			bestSim, bestIdx = sim, i
		}
	}
	if bestIdx < 0 || bestSim < minTitleSimilarity {
		return nil, &NoPDFFoundError{Source: c.Name(), ResultsChecked: len(oar.Results)}
	}

	return c.recordFromWork(paper, oar.Results[bestIdx], bestSim, len(oar.Results))
}

func (c *OpenAlexCollector) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 1)
	if err != nil {
		return nil, &APIError{Source: c.Name(), Err: err}
	}
	return resp, nil
}

// recordFromWork extracts the best open-access PDF URL from a work.
// resultsChecked feeds the NoPDFFoundError when the work carries no
// retrievable document.
func (c *OpenAlexCollector) recordFromWork(paper types.Paper, work openAlexWork, confidence float64, resultsChecked int) (*types.PDFRecord, error) {
	pdfURL := work.BestOALocation.PDFURL
	license := work.BestOALocation.License
	if pdfURL == "" {
		pdfURL = work.OpenAccess.OAURL
	}
	if pdfURL == "" {
		return nil, &NoPDFFoundError{Source: c.Name(), ResultsChecked: resultsChecked}
	}

	return &types.PDFRecord{
		PaperID:            paper.ID,
		PDFURL:             pdfURL,
		Source:             c.Name(),
		DiscoveryTimestamp: time.Now().UTC(),
		ConfidenceScore:    confidence,
		VersionInfo: map[string]any{
			"openalex_id": work.ID,
			"oa_status":   work.OpenAccess.OAStatus,
		},
		ValidationStatus: types.StatusUnverified,
		License:          license,
	}, nil
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	DOI            string             `json:"doi"`
	OpenAccess     openAlexOpenAccess `json:"open_access"`
	BestOALocation openAlexLocation   `json:"best_oa_location"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

type openAlexLocation struct {
	PDFURL  string `json:"pdf_url"`
	License string `json:"license"`
}
