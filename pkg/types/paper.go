// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pdf-pipeline stages:
// discovery (Paper, PDFRecord, DiscoveryResult), extraction
// (ExtractionResult, Affiliation), and cost accounting (CostRecord).
package types

// Paper holds bibliographic metadata for one paper as supplied by the
// upstream collection stage. The pipeline treats Paper as read-only input
// and never mutates it.
type Paper struct {
	// ID is the paper identifier used as the key throughout the pipeline
	// (cache filenames, record keys, result files).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, zero when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the publication venue (conference or journal name).
	// Discovery uses it to select a collector priority order.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// DOI is the bare DOI (e.g. "10.1145/3292500.3330701"), without a
	// resolver prefix.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URLs lists known external landing pages or document URLs for the paper.
	URLs []string `json:"urls,omitempty" yaml:"urls,omitempty"`
}
