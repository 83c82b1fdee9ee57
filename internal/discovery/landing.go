// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pdf-pipeline/internal/httputil"
	"github.com/pdiddy/pdf-pipeline/internal/ratelimit"
	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// LandingPageCollector scrapes the paper's known landing pages for a PDF
// link. It is the lowest-confidence fallback: publisher pages expose
// either a citation_pdf_url meta tag (Highwire convention) or a direct
// .pdf anchor.
type LandingPageCollector struct {
	Client    *http.Client
	Limiter   *ratelimit.Limiter
	UserAgent string
}

// Name returns the collector identifier.
func (c *LandingPageCollector) Name() string { return "landing_page" }

// Discover fetches each of the paper's URLs and scrapes the HTML for a
// PDF link.
func (c *LandingPageCollector) Discover(ctx context.Context, paper types.Paper) (*types.PDFRecord, error) {
	if len(paper.URLs) == 0 {
		return nil, &NoResultsError{Source: c.Name(), Query: "paper has no URLs"}
	}

	pagesChecked := 0
	for _, pageURL := range paper.URLs {
		// A URL that is already a PDF needs no scraping.
		if strings.HasSuffix(strings.ToLower(pageURL), ".pdf") {
			return c.record(paper, pageURL, 0.5, "direct_url"), nil
		}

		c.Limiter.Wait()

		pdfURL, kind, err := c.scrape(ctx, pageURL)
		if err != nil {
			// A dead landing page is not fatal; the next URL may work.
			if len(paper.URLs) == 1 {
				return nil, err
			}
			continue
		}
		pagesChecked++
		if pdfURL == "" {
			continue
		}

		confidence := 0.6
		if kind == "anchor" {
			confidence = 0.4
		}
		return c.record(paper, pdfURL, confidence, kind), nil
	}

	return nil, &NoPDFFoundError{Source: c.Name(), ResultsChecked: pagesChecked}
}

// scrape fetches one landing page and returns the first PDF link found,
// with the kind of evidence ("citation_meta" or "anchor").
func (c *LandingPageCollector) scrape(ctx context.Context, pageURL string) (pdfURL, kind string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 1)
	if err != nil {
		return "", "", &APIError{Source: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	if cerr := checkResponse(c.Name(), resp); cerr != nil {
		return "", "", cerr
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", &APIError{Source: c.Name(), StatusCode: resp.StatusCode, Body: "unparseable HTML", Err: err}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing page URL: %w", err)
	}

	// Highwire/Google Scholar meta tag is the strongest signal.
	if content, ok := doc.Find(`meta[name="citation_pdf_url"]`).Attr("content"); ok && content != "" {
		return resolveRef(base, content), "citation_meta", nil
	}

	found := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if strings.HasSuffix(strings.ToLower(strings.TrimSpace(href)), ".pdf") {
			found = resolveRef(base, href)
			return false
		}
		return true
	})
	if found != "" {
		return found, "anchor", nil
	}

	return "", "", nil
}

func (c *LandingPageCollector) record(paper types.Paper, pdfURL string, confidence float64, kind string) *types.PDFRecord {
	return &types.PDFRecord{
		PaperID:            paper.ID,
		PDFURL:             pdfURL,
		Source:             c.Name(),
		DiscoveryTimestamp: time.Now().UTC(),
		ConfidenceScore:    confidence,
		VersionInfo: map[string]any{
			"evidence": kind,
		},
		ValidationStatus: types.StatusUnverified,
	}
}

// resolveRef resolves a possibly relative href against the page URL.
func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
