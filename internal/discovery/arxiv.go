// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pdf-pipeline/internal/httputil"
	"github.com/pdiddy/pdf-pipeline/internal/ratelimit"
	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// arXiv endpoints. Declared as vars so tests can substitute httptest servers.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// arxivIDPattern matches arXiv IDs: "2301.07041", "2301.07041v2".
var arxivIDPattern = regexp.MustCompile(`(\d{4}\.\d{4,5})(?:v\d+)?`)

// ArxivCollector queries the arXiv export API. When the paper's URLs or
// DOI already carry an arXiv ID the record is built directly without a
// search.
type ArxivCollector struct {
	Client    *http.Client
	Limiter   *ratelimit.Limiter
	UserAgent string
}

// Name returns the collector identifier.
func (c *ArxivCollector) Name() string { return "arxiv" }

// Discover finds an arXiv PDF for the paper.
func (c *ArxivCollector) Discover(ctx context.Context, paper types.Paper) (*types.PDFRecord, error) {
	if id := arxivIDFromPaper(paper); id != "" {
		return c.record(paper, id, 0.95, types.StatusVerified), nil
	}

	if paper.Title == "" {
		return nil, &NoResultsError{Source: c.Name(), Query: ""}
	}

	c.Limiter.Wait()

	query := buildArxivTitleQuery(paper.Title)
	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=10", arxivAPIBase, query)

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

	if err := checkResponse(c.Name(), resp); err != nil {
		return nil, err
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Body: "unparseable Atom feed", Err: err}
	}

	if len(feed.Entries) == 0 {
		return nil, &NoResultsError{Source: c.Name(), Query: query}
	}

	bestSim := 0.0
	bestID := ""
	for _, entry := range feed.Entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}
		if sim := titleSimilarity(paper.Title, entry.Title); sim > bestSim {
			bestSim, bestID = sim, id
		}
	}

	if bestID == "" || bestSim < minTitleSimilarity {
		return nil, &NoPDFFoundError{Source: c.Name(), ResultsChecked: len(feed.Entries)}
	}

	return c.record(paper, bestID, bestSim, types.StatusUnverified), nil
}

func (c *ArxivCollector) record(paper types.Paper, arxivID string, confidence float64, status types.ValidationStatus) *types.PDFRecord {
	return &types.PDFRecord{
		PaperID:            paper.ID,
		PDFURL:             arxivPDFBase + arxivID,
		Source:             c.Name(),
		DiscoveryTimestamp: time.Now().UTC(),
		ConfidenceScore:    confidence,
		VersionInfo: map[string]any{
			"repository": "arxiv",
			"arxiv_id":   arxivID,
		},
		ValidationStatus: status,
	}
}

// arxivIDFromPaper looks for an arXiv ID in the paper's URLs and DOI.
// DataCite DOIs of the form 10.48550/arXiv.2301.07041 carry the ID directly.
func arxivIDFromPaper(paper types.Paper) string {
	for _, u := range paper.URLs {
		if !strings.Contains(u, "arxiv.org") {
			continue
		}
		if m := arxivIDPattern.FindStringSubmatch(u); m != nil {
			return m[1]
		}
	}
	if strings.HasPrefix(strings.ToLower(paper.DOI), "10.48550/arxiv.") {
		if m := arxivIDPattern.FindStringSubmatch(paper.DOI); m != nil {
			return m[1]
		}
	}
	return ""
}

// buildArxivTitleQuery constructs a ti: search_query for the title.
func buildArxivTitleQuery(title string) string {
	terms := strings.Fields(normalizeTitle(title))
	return "ti:" + url.QueryEscape(strings.Join(terms, " "))
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
