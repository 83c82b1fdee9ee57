// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// PdftotextExtractor is the fast structural parser. It reads the PDF's
// embedded text layer through the poppler pdftotext binary; scanned
// documents with no text layer make it fail, which hands the document to
// the OCR fallback.
type PdftotextExtractor struct {
	run      runner
	maxPages int
}

// NewPdftotextExtractor returns the extractor reading at most maxPages
// pages (default 10).
func NewPdftotextExtractor(maxPages int) *PdftotextExtractor {
	if maxPages <= 0 {
		maxPages = 10
	}
	return &PdftotextExtractor{run: defaultRunner, maxPages: maxPages}
}

// Name returns the extractor identifier.
func (e *PdftotextExtractor) Name() string { return "pdftotext" }

// Available reports whether the pdftotext binary is on PATH.
func (e *PdftotextExtractor) Available() bool {
	return toolAvailable(e.run, "pdftotext")
}

// Extract parses the PDF's text layer and the first-page header block.
func (e *PdftotextExtractor) Extract(ctx context.Context, pdfPath string, paper types.Paper) (*types.ExtractionResult, error) {
	out, err := e.run.Output(ctx, "pdftotext",
		"-layout", "-l", strconv.Itoa(e.maxPages), pdfPath, "-")
	if err != nil {
		return nil, fmt.Errorf("running pdftotext: %w", err)
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%s has no text layer", pdfPath)
	}

	return &types.ExtractionResult{
		PaperID:      paper.ID,
		Text:         text,
		Confidence:   textConfidence(text),
		Affiliations: parseAffiliations(text, paper.Authors),
		Cost:         0,
	}, nil
}

// textConfidence scores extracted text on volume and word shape. Sparse
// output or garbage tokenization (no spaces, glyph soup) scores low
// enough for the validator to reject.
func textConfidence(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	// Volume component: 4000 characters of a paper's front matter is
	// plenty; scale linearly below that.
	volume := float64(len(trimmed)) / 4000.0
	if volume > 1 {
		volume = 1
	}

	// Shape component: average word length outside 2–12 suggests a broken
	// text layer.
	words := strings.Fields(trimmed)
	shape := 1.0
	if len(words) > 0 {
		avg := float64(len(trimmed)) / float64(len(words))
		if avg < 2 || avg > 12 {
			shape = 0.4
		}
	} else {
		shape = 0
	}

	score := 0.2 + 0.75*volume*shape
	if score > 0.95 {
		score = 0.95
	}
	return score
}
