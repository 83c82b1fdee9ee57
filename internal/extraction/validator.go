// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"strings"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// Validator judges whether an extraction result is acceptable. Acceptance
// requires passing every configured check; a conjunctive gate, not a
// weighted score.
type Validator struct {
	// MinConfidence is the minimum acceptable confidence score.
	MinConfidence float64

	// MinTextLength rejects implausibly short extracted text.
	MinTextLength int

	// MinAffiliations is the minimum affiliation count for affiliation
	// extraction.
	MinAffiliations int
}

// NewValidator builds a Validator from configuration, applying defaults
// for unset thresholds.
func NewValidator(cfg types.ExtractionConfig) *Validator {
	v := &Validator{
		MinConfidence:   cfg.MinConfidence,
		MinTextLength:   cfg.MinTextLength,
		MinAffiliations: cfg.MinAffiliations,
	}
	if v.MinConfidence <= 0 {
		v.MinConfidence = 0.3
	}
	if v.MinTextLength <= 0 {
		v.MinTextLength = 200
	}
	if v.MinAffiliations <= 0 {
		v.MinAffiliations = 1
	}
	return v
}

// Validate reports whether the result passes all configured checks.
// Affiliation checks apply only when needAffiliations is set; the author
// cross-check applies only when the paper carries author metadata.
func (v *Validator) Validate(result *types.ExtractionResult, paper types.Paper, needAffiliations bool) bool {
	if result == nil {
		return false
	}
	if result.Confidence < v.MinConfidence {
		return false
	}
	if len(strings.TrimSpace(result.Text)) < v.MinTextLength {
		return false
	}

	if !needAffiliations {
		return true
	}

	if len(result.Affiliations) == 0 {
		return false
	}
	if len(result.Affiliations) < v.MinAffiliations {
		return false
	}

	if len(paper.Authors) > 0 && !anyAffiliationMatchesAuthor(result.Affiliations, paper.Authors) {
		return false
	}
	return true
}

// anyAffiliationMatchesAuthor reports whether at least one extracted
// affiliation entry corresponds to a known author, by normalized full-name
// or last-name match.
func anyAffiliationMatchesAuthor(affiliations []types.Affiliation, authors []string) bool {
	for _, aff := range affiliations {
		name := normalizeName(aff.Name)
		if name == "" {
			continue
		}
		for _, author := range authors {
			na := normalizeName(author)
			if na == "" {
				continue
			}
			if name == na || lastName(na) == lastName(name) {
				return true
			}
		}
	}
	return false
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func lastName(normalized string) string {
	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
