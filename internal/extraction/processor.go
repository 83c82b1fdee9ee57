// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extraction turns retrieved PDFs into text and affiliation data
// through a priority-ordered chain of extractors with validation-gated
// fallback and cost accounting.
package extraction

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// Extractor converts a retrieved document into text and affiliation data.
// Implementations report a confidence score and the cost the call
// incurred; the processor decides acceptance.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, pdfPath string, paper types.Paper) (*types.ExtractionResult, error)
}

// registration ties an extractor to its priority level and capability flag.
type registration struct {
	extractor    Extractor
	level        int
	affiliations bool
}

// Processor orchestrates extractors in ascending level order, consulting
// the Validator to accept or fall through, and records accepted costs via
// the CostTracker. Construct one per pipeline; the registry is owned by
// the instance, not shared.
type Processor struct {
	registry  []registration
	validator *Validator
	costs     *CostTracker
	w         io.Writer
}

// NewProcessor returns a Processor with an empty registry.
func NewProcessor(validator *Validator, costs *CostTracker, w io.Writer) *Processor {
	if w == nil {
		w = io.Discard
	}
	return &Processor{validator: validator, costs: costs, w: w}
}

// Register adds an extractor at the given priority level (lower runs
// first). affiliationCapable marks extractors usable for affiliation
// extraction.
func (p *Processor) Register(e Extractor, level int, affiliationCapable bool) {
	p.registry = append(p.registry, registration{
		extractor:    e,
		level:        level,
		affiliations: affiliationCapable,
	})
}

// Process runs the extractor chain for one document. When needAffiliations
// is set, only affiliation-capable extractors are eligible and the
// validator applies its affiliation checks. An extractor error means "this
// extractor cannot handle this document" and triggers fallback; when every
// eligible extractor fails or is rejected the result has empty
// affiliations and Method "failed", a normal terminal outcome rather
// than an error.
func (p *Processor) Process(ctx context.Context, pdfPath string, paper types.Paper, needAffiliations bool) *types.ExtractionResult {
	eligible := make([]registration, 0, len(p.registry))
	for _, reg := range p.registry {
		if needAffiliations && !reg.affiliations {
			continue
		}
		eligible = append(eligible, reg)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].level < eligible[j].level
	})

	operation := "text_extraction"
	if needAffiliations {
		operation = "affiliation_extraction"
	}

	for _, reg := range eligible {
		name := reg.extractor.Name()

		result, err := reg.extractor.Extract(ctx, pdfPath, paper)
		if err != nil {
			fmt.Fprintf(p.w, "  %s: %s failed: %v\n", paper.ID, name, err)
			continue
		}

		if !p.validator.Validate(result, paper, needAffiliations) {
			fmt.Fprintf(p.w, "  %s: %s output rejected\n", paper.ID, name)
			continue
		}

		p.costs.RecordExtractionCost(name, operation, result.Cost, map[string]any{
			"paper_id": paper.ID,
		})

		result.PaperID = paper.ID
		result.Method = name
		return result
	}

	return &types.ExtractionResult{
		PaperID:      paper.ID,
		Method:       types.MethodFailed,
		Affiliations: []types.Affiliation{},
	}
}
