// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ValidationStatus indicates whether a discovered PDF URL has been checked.
type ValidationStatus string

const (
	StatusVerified   ValidationStatus = "verified"
	StatusUnverified ValidationStatus = "unverified"
	StatusInvalid    ValidationStatus = "invalid"
)

// PDFRecord is one collector's discovery result for one paper. Records are
// never mutated after creation; deduplication supersedes records, it does
// not edit them.
type PDFRecord struct {
	// PaperID links the record to its Paper.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// PDFURL is the retrievable document URL the collector found.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Source is the name of the collector that produced this record.
	Source string `json:"source" yaml:"source"`

	// DiscoveryTimestamp is when the collector produced the record.
	DiscoveryTimestamp time.Time `json:"discovery_timestamp" yaml:"discovery_timestamp"`

	// ConfidenceScore is the collector's confidence in the match, in [0, 1].
	ConfidenceScore float64 `json:"confidence_score" yaml:"confidence_score"`

	// VersionInfo carries source-specific metadata (repository name,
	// published version, OA status). Collectors legitimately vary in what
	// they report, so this stays an open map.
	VersionInfo map[string]any `json:"version_info,omitempty" yaml:"version_info,omitempty"`

	// ValidationStatus records whether the URL has been verified.
	ValidationStatus ValidationStatus `json:"validation_status" yaml:"validation_status"`

	// FileSizeBytes is the document size when the source reports one.
	FileSizeBytes int64 `json:"file_size_bytes,omitempty" yaml:"file_size_bytes,omitempty"`

	// License is the document license when the source reports one
	// (e.g. "cc-by").
	License string `json:"license,omitempty" yaml:"license,omitempty"`
}

// Same reports whether two records are interchangeable. Records with
// identical PaperID, PDFURL, and Source describe the same discovery.
func (r PDFRecord) Same(o PDFRecord) bool {
	return r.PaperID == o.PaperID && r.PDFURL == o.PDFURL && r.Source == o.Source
}

// SourceStats holds per-collector attempt counters for one discovery run.
type SourceStats struct {
	Attempted  int `json:"attempted" yaml:"attempted"`
	Successful int `json:"successful" yaml:"successful"`
}

// DiscoveryResult aggregates one discovery run. It is created once per run
// and read-only thereafter.
type DiscoveryResult struct {
	// RunID identifies the run in result files and logs.
	RunID string `json:"run_id" yaml:"run_id"`

	// TotalPapers is the number of papers in the input batch.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// DiscoveredCount is the number of distinct papers with a record.
	// Always equals TotalPapers - len(FailedPapers).
	DiscoveredCount int `json:"discovered_count" yaml:"discovered_count"`

	// Records holds the deduplicated records, at most one per paper.
	Records []PDFRecord `json:"records" yaml:"records"`

	// FailedPapers lists identifiers for which no collector produced a record.
	FailedPapers []string `json:"failed_papers" yaml:"failed_papers"`

	// SourceStatistics is keyed by collector name.
	SourceStatistics map[string]SourceStats `json:"source_statistics" yaml:"source_statistics"`

	// ExecutionTimeSeconds is the end-to-end run duration.
	ExecutionTimeSeconds float64 `json:"execution_time_seconds" yaml:"execution_time_seconds"`
}

// HasFailures reports whether any paper exhausted all collectors.
func (r DiscoveryResult) HasFailures() bool {
	return len(r.FailedPapers) > 0
}
