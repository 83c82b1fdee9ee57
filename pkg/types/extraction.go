// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MethodFailed is the terminal method name when every eligible extractor
// failed or was rejected by the validator. It marks a normal outcome, not
// an error.
const MethodFailed = "failed"

// Affiliation is one extracted author/affiliation entry.
type Affiliation struct {
	// Name is the author or institution name the affiliation was attached to.
	Name string `json:"name" yaml:"name"`

	// Country is the affiliation country as it appeared in the header.
	Country string `json:"country" yaml:"country"`
}

// ExtractionResult is the outcome of processing one retrieved document.
// Produced once per document; immutable afterwards.
type ExtractionResult struct {
	// PaperID links the result to its Paper.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Text is the extracted document text.
	Text string `json:"text" yaml:"text"`

	// Method is the name of the extractor whose output passed validation,
	// or MethodFailed when none did.
	Method string `json:"method" yaml:"method"`

	// Confidence is the extractor's confidence in the output, in [0, 1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Affiliations lists extracted name/country pairs.
	Affiliations []Affiliation `json:"affiliations" yaml:"affiliations"`

	// Cost is the monetary cost incurred producing this result, in USD.
	Cost float64 `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// Failed reports whether the result is the non-exceptional terminal outcome.
func (r ExtractionResult) Failed() bool {
	return r.Method == MethodFailed
}

// CostRecord is one entry in the append-only extraction cost ledger.
// Records are never edited or removed; corrections are new records.
type CostRecord struct {
	// ID uniquely identifies the record.
	ID string `json:"id" yaml:"id"`

	// Extractor is the extractor that incurred the cost.
	Extractor string `json:"extractor" yaml:"extractor"`

	// Operation is the operation type (e.g. "affiliation_extraction").
	Operation string `json:"operation" yaml:"operation"`

	// Cost is the monetary cost in USD.
	Cost float64 `json:"cost" yaml:"cost"`

	// Timestamp is when the cost was recorded.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Details carries free-form context (page counts, paper id).
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// CostSummary combines ledger totals with per-group breakdowns.
type CostSummary struct {
	TotalCost               float64            `json:"total_cost" yaml:"total_cost"`
	TotalOperations         int                `json:"total_operations" yaml:"total_operations"`
	AverageCostPerOperation float64            `json:"average_cost_per_operation" yaml:"average_cost_per_operation"`
	CostByExtractor         map[string]float64 `json:"cost_by_extractor" yaml:"cost_by_extractor"`
	CostByOperation         map[string]float64 `json:"cost_by_operation" yaml:"cost_by_operation"`
	OperationCounts         map[string]int     `json:"operation_counts" yaml:"operation_counts"`
}
