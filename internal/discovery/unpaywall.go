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

// unpaywallAPIBase is the Unpaywall DOI lookup endpoint. Declared as a var
// so tests can substitute an httptest server.
var unpaywallAPIBase = "https://api.unpaywall.org/v2/"

// UnpaywallCollector looks up open-access locations by DOI. Unpaywall
// requires a contact email on every request.
type UnpaywallCollector struct {
	Client    *http.Client
	Limiter   *ratelimit.Limiter
	Email     string
	UserAgent string
}

// Name returns the collector identifier.
func (c *UnpaywallCollector) Name() string { return "unpaywall" }

// Discover looks up the paper's DOI and returns the best open-access PDF
// location.
func (c *UnpaywallCollector) Discover(ctx context.Context, paper types.Paper) (*types.PDFRecord, error) {
	if paper.DOI == "" {
		return nil, &NoResultsError{Source: c.Name(), Query: "paper has no DOI"}
	}

	c.Limiter.Wait()

	reqURL := unpaywallAPIBase + url.PathEscape(paper.DOI) + "?email=" + url.QueryEscape(c.Email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 1)
	if err != nil {
		return nil, &APIError{Source: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	// Unknown DOIs come back as 404.
	if resp.StatusCode == http.StatusNotFound {
		return nil, &NoResultsError{Source: c.Name(), Query: paper.DOI}
	}
	if err := checkResponse(c.Name(), resp); err != nil {
		return nil, err
	}

	var ur unpaywallResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Body: "unparseable response", Err: err}
	}

	loc := ur.BestOALocation
	if loc == nil || loc.URLForPDF == "" {
		for i := range ur.OALocations {
			if ur.OALocations[i].URLForPDF != "" {
				loc = &ur.OALocations[i]
				break
			}
		}
	}
	if loc == nil || loc.URLForPDF == "" {
		return nil, &NoPDFFoundError{Source: c.Name(), ResultsChecked: len(ur.OALocations)}
	}

	versionInfo := map[string]any{
		"oa_status": ur.OAStatus,
	}
	if loc.Version != "" {
		versionInfo["version"] = loc.Version
	}
	if loc.RepositoryInstitution != "" {
		versionInfo["repository"] = loc.RepositoryInstitution
	}

	return &types.PDFRecord{
		PaperID:            paper.ID,
		PDFURL:             loc.URLForPDF,
		Source:             c.Name(),
		DiscoveryTimestamp: time.Now().UTC(),
		ConfidenceScore:    0.9,
		VersionInfo:        versionInfo,
		ValidationStatus:   types.StatusUnverified,
		License:            loc.License,
	}, nil
}

// Unpaywall API JSON structures.
type unpaywallResponse struct {
	DOI            string              `json:"doi"`
	IsOA           bool                `json:"is_oa"`
	OAStatus       string              `json:"oa_status"`
	BestOALocation *unpaywallLocation  `json:"best_oa_location"`
	OALocations    []unpaywallLocation `json:"oa_locations"`
}

type unpaywallLocation struct {
	URLForPDF             string `json:"url_for_pdf"`
	Version               string `json:"version"`
	License               string `json:"license"`
	RepositoryInstitution string `json:"repository_institution"`
}
