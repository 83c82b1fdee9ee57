// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// ocrResolutionDPI is the rasterization resolution handed to pdftoppm.
// 300 DPI is the conventional floor for usable OCR.
const ocrResolutionDPI = "300"

// OCRExtractor handles scanned documents: it rasterizes the leading pages
// with pdftoppm and runs tesseract over each image. Slower than the
// structural parser, so it sits behind it in the chain.
type OCRExtractor struct {
	run      runner
	maxPages int
}

// NewOCRExtractor returns the extractor reading at most maxPages pages
// (default 3; OCRing a whole paper buys nothing for affiliations).
func NewOCRExtractor(maxPages int) *OCRExtractor {
	if maxPages <= 0 {
		maxPages = 3
	}
	return &OCRExtractor{run: defaultRunner, maxPages: maxPages}
}

// Name returns the extractor identifier.
func (e *OCRExtractor) Name() string { return "ocr" }

// Available reports whether both pdftoppm and tesseract are on PATH.
func (e *OCRExtractor) Available() bool {
	return toolAvailable(e.run, "pdftoppm") && toolAvailable(e.run, "tesseract")
}

// Extract rasterizes and OCRs the document's leading pages.
func (e *OCRExtractor) Extract(ctx context.Context, pdfPath string, paper types.Paper) (*types.ExtractionResult, error) {
	tmpDir, err := os.MkdirTemp("", "ocr-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	_, err = e.run.Output(ctx, "pdftoppm",
		"-png", "-r", ocrResolutionDPI,
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
		out, err := e.run.Output(ctx, "tesseract", img, "stdout")
		if err != nil {
			return nil, fmt.Errorf("OCR on %s: %w", filepath.Base(img), err)
		}
		pages = append(pages, string(out))
	}

	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("OCR produced no text for %s", pdfPath)
	}

	// OCR output is noisier than a native text layer.
	confidence := textConfidence(text) * 0.85

	return &types.ExtractionResult{
		PaperID:      paper.ID,
		Text:         text,
		Confidence:   confidence,
		Affiliations: parseAffiliations(text, paper.Authors),
		Cost:         0,
	}, nil
}
