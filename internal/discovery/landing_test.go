// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

func landingTestServer(html string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, html)
	}))
}

func TestLandingPageDirectPDFURL(t *testing.T) {
	c := &LandingPageCollector{Limiter: testLimiter()}
	paper := types.Paper{ID: "p1", URLs: []string{"https://proceedings.example.org/paper.PDF"}}

	record, err := c.Discover(context.Background(), paper)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if record.PDFURL != "https://proceedings.example.org/paper.PDF" {
		t.Errorf("PDFURL = %q", record.PDFURL)
	}
	if record.ConfidenceScore != 0.5 {
		t.Errorf("ConfidenceScore = %v, want 0.5 for a direct URL", record.ConfidenceScore)
	}
	if record.VersionInfo["evidence"] != "direct_url" {
		t.Errorf("evidence = %v, want direct_url", record.VersionInfo["evidence"])
	}
}

func TestLandingPageCitationMeta(t *testing.T) {
	ts := landingTestServer(`<html><head>
<meta name="citation_pdf_url" content="/files/paper42.pdf">
</head><body><a href="/files/other.pdf">download</a></body></html>`)
	defer ts.Close()

	c := &LandingPageCollector{Client: ts.Client(), Limiter: testLimiter()}
	paper := types.Paper{ID: "p1", URLs: []string{ts.URL + "/article/42"}}

	record, err := c.Discover(context.Background(), paper)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// The meta tag wins over anchors and relative URLs resolve against the page.
	if record.PDFURL != ts.URL+"/files/paper42.pdf" {
		t.Errorf("PDFURL = %q, want resolved citation_pdf_url", record.PDFURL)
	}
	if record.ConfidenceScore != 0.6 {
		t.Errorf("ConfidenceScore = %v, want 0.6 for citation meta", record.ConfidenceScore)
	}
}

func TestLandingPageAnchorFallback(t *testing.T) {
	ts := landingTestServer(`<html><body>
<a href="/about">About</a>
<a href="/files/paper.pdf">Full text</a>
</body></html>`)
	defer ts.Close()

	c := &LandingPageCollector{Client: ts.Client(), Limiter: testLimiter()}
	paper := types.Paper{ID: "p1", URLs: []string{ts.URL + "/article"}}

	record, err := c.Discover(context.Background(), paper)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if record.PDFURL != ts.URL+"/files/paper.pdf" {
		t.Errorf("PDFURL = %q, want resolved anchor href", record.PDFURL)
	}
	if record.ConfidenceScore != 0.4 {
		t.Errorf("ConfidenceScore = %v, want 0.4 for an anchor match", record.ConfidenceScore)
	}
}

func TestLandingPageNoPDF(t *testing.T) {
	ts := landingTestServer(`<html><body><p>No downloads here.</p></body></html>`)
	defer ts.Close()

	c := &LandingPageCollector{Client: ts.Client(), Limiter: testLimiter()}
	paper := types.Paper{ID: "p1", URLs: []string{ts.URL}}

	_, err := c.Discover(context.Background(), paper)
	var npf *NoPDFFoundError
	if !errors.As(err, &npf) {
		t.Fatalf("err = %v, want NoPDFFoundError", err)
	}
	if npf.ResultsChecked != 1 {
		t.Errorf("ResultsChecked = %d, want 1", npf.ResultsChecked)
	}
}

func TestLandingPageNoURLs(t *testing.T) {
	c := &LandingPageCollector{Limiter: testLimiter()}
	_, err := c.Discover(context.Background(), types.Paper{ID: "p1"})

	var nr *NoResultsError
	if !errors.As(err, &nr) {
		t.Fatalf("err = %v, want NoResultsError without URLs", err)
	}
}

func TestLandingPageDeadPageSingleURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	c := &LandingPageCollector{Client: ts.Client(), Limiter: testLimiter()}
	_, err := c.Discover(context.Background(), types.Paper{ID: "p1", URLs: []string{ts.URL}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError for the only landing page failing", err)
	}
}

func TestLandingPageTriesNextURL(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer dead.Close()
	alive := landingTestServer(`<html><body><a href="x.pdf">PDF</a></body></html>`)
	defer alive.Close()

	c := &LandingPageCollector{Client: http.DefaultClient, Limiter: testLimiter()}
	paper := types.Paper{ID: "p1", URLs: []string{dead.URL, alive.URL + "/page"}}

	record, err := c.Discover(context.Background(), paper)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if record.PDFURL != alive.URL+"/x.pdf" {
		t.Errorf("PDFURL = %q, want PDF from the second URL", record.PDFURL)
	}
}
