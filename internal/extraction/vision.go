// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// visionAPIBase is the cloud vision annotate endpoint. Declared as a var
// so tests can substitute an httptest server.
var visionAPIBase = "https://vision.googleapis.com/v1/images:annotate"

// VisionExtractor is the last-resort extractor: it rasterizes pages
// locally and sends them to the cloud vision API for document text
// detection. Every call costs money, which is why it runs at the lowest
// priority and its cost flows into the ledger.
type VisionExtractor struct {
	Client      *http.Client
	APIKey      string
	CostPerPage float64

	run      runner
	maxPages int
}

// NewVisionExtractor returns the extractor reading at most maxPages pages
// (default 2). costPerPage defaults to the published DOCUMENT_TEXT_DETECTION
// rate of $0.0015.
func NewVisionExtractor(client *http.Client, apiKey string, costPerPage float64, maxPages int) *VisionExtractor {
	if costPerPage <= 0 {
		costPerPage = 0.0015
	}
	if maxPages <= 0 {
		maxPages = 2
	}
	return &VisionExtractor{
		Client:      client,
		APIKey:      apiKey,
		CostPerPage: costPerPage,
		run:         defaultRunner,
		maxPages:    maxPages,
	}
}

// Name returns the extractor identifier.
func (e *VisionExtractor) Name() string { return "vision" }

// Available reports whether the extractor is configured and pdftoppm is
// on PATH.
func (e *VisionExtractor) Available() bool {
	return e.APIKey != "" && toolAvailable(e.run, "pdftoppm")
}

// Extract rasterizes the leading pages and annotates them through the
// cloud vision API. The result's Cost is pages sent times CostPerPage,
// incurred whether or not the validator later accepts the output.
func (e *VisionExtractor) Extract(ctx context.Context, pdfPath string, paper types.Paper) (*types.ExtractionResult, error) {
	tmpDir, err := os.MkdirTemp("", "vision-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	_, err = e.run.Output(ctx, "pdftoppm",
		"-png", "-r", "150",
		"-f", "1", "-l", strconv.Itoa(e.maxPages),
		pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("rasterizing %s: %w", pdfPath, err)
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return nil, fmt.Errorf("globbing page images: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", pdfPath)
	}
	sort.Strings(images)

	var pages []string
	for _, img := range images {
		data, err := os.ReadFile(img)
		if err != nil {
			return nil, fmt.Errorf("reading page image: %w", err)
		}
		text, err := e.annotate(ctx, data)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}

	text := strings.Join(pages, "\n")
	cost := float64(len(images)) * e.CostPerPage

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("vision API returned no text for %s", pdfPath)
	}

	return &types.ExtractionResult{
		PaperID:      paper.ID,
		Text:         text,
		Confidence:   0.9,
		Affiliations: parseAffiliations(text, paper.Authors),
		Cost:         cost,
	}, nil
}

// annotate sends one page image for DOCUMENT_TEXT_DETECTION.
func (e *VisionExtractor) annotate(ctx context.Context, image []byte) (string, error) {
	reqBody := visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []visionFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		visionAPIBase+"?key="+e.APIKey, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision API returned HTTP %d", resp.StatusCode)
	}

	var vr visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return "", fmt.Errorf("parsing vision response: %w", err)
	}

	if len(vr.Responses) == 0 {
		return "", nil
	}
	if vr.Responses[0].Error.Message != "" {
		return "", fmt.Errorf("vision API error: %s", vr.Responses[0].Error.Message)
	}
	return vr.Responses[0].FullTextAnnotation.Text, nil
}

// Cloud vision API JSON structures.
type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Responses []visionAnnotateResponse `json:"responses"`
}

type visionAnnotateResponse struct {
	FullTextAnnotation visionFullText `json:"fullTextAnnotation"`
	Error              visionError    `json:"error"`
}

type visionFullText struct {
	Text string `json:"text"`
}

type visionError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
