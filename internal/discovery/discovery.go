// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery locates downloadable PDFs for papers by querying a
// roster of external source collectors in priority order, deduplicating
// competing candidates, and aggregating per-source statistics.
package discovery

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// Collector attempts to find a downloadable document for one paper from
// one external repository. Each concrete collector (arXiv, Unpaywall,
// OpenAlex, Semantic Scholar, landing-page scraper) implements this
// interface per the Strategy pattern, and must call its rate limiter
// before any network operation. Expected failures are returned as one of
// APIError, NoResultsError, NoPDFFoundError, or RateLimitError.
type Collector interface {
	Name() string
	Discover(ctx context.Context, paper types.Paper) (*types.PDFRecord, error)
}

// ProgressFunc receives progress updates during a discovery run. It must
// not block; a panicking callback is logged and ignored.
type ProgressFunc func(completed, total int, source string)

// Framework owns the collector roster and runs discovery over paper
// batches. Construct one per pipeline; independent frameworks share no
// state and can run concurrently.
type Framework struct {
	collectors []Collector // registration order
	byName     map[string]Collector

	venuePriorities map[string][]string
	defaultPriority []string

	w io.Writer
}

// NewFramework returns a Framework with an empty roster. Progress and
// warnings are written to w.
func NewFramework(cfg types.DiscoveryConfig, w io.Writer) *Framework {
	if w == nil {
		w = io.Discard
	}
	return &Framework{
		byName:          make(map[string]Collector),
		venuePriorities: cfg.VenuePriorities,
		defaultPriority: cfg.DefaultPriority,
		w:               w,
	}
}

// Register adds a collector to the roster. A collector re-registered under
// the same name replaces the earlier one in place.
func (f *Framework) Register(c Collector) {
	name := c.Name()
	if _, ok := f.byName[name]; ok {
		for i, existing := range f.collectors {
			if existing.Name() == name {
				f.collectors[i] = c
				break
			}
		}
	} else {
		f.collectors = append(f.collectors, c)
	}
	f.byName[name] = c
}

// Collectors returns the roster in registration order.
func (f *Framework) Collectors() []Collector {
	out := make([]Collector, len(f.collectors))
	copy(out, f.collectors)
	return out
}

// collectorOrder returns the collectors to try for a paper from venue, in
// order: the venue's configured priority list if one exists, else the
// default priority list, else the full roster in registration order.
// Priority entries naming collectors not in the roster are skipped.
func (f *Framework) collectorOrder(venue string) []Collector {
	names, ok := f.venuePriorities[venue]
	if !ok {
		names = f.defaultPriority
	}
	if len(names) == 0 {
		return f.collectors
	}

	ordered := make([]Collector, 0, len(names))
	for _, name := range names {
		if c, ok := f.byName[name]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// priorityIndex returns the position of source in the paper's priority
// order, or len(order) when the source appears in no priority list.
func (f *Framework) priorityIndex(venue, source string) int {
	names, ok := f.venuePriorities[venue]
	if !ok {
		names = f.defaultPriority
	}
	for i, name := range names {
		if name == source {
			return i
		}
	}
	return len(names)
}

// DiscoverPDFs runs discovery for a batch of papers. Collector failures
// never abort the batch; a paper joins FailedPapers only after every
// collector in its order has been tried. A collector is not retried for
// the same paper within one run.
func (f *Framework) DiscoverPDFs(ctx context.Context, papers []types.Paper, progress ProgressFunc) (*types.DiscoveryResult, error) {
	start := time.Now()

	result := &types.DiscoveryResult{
		RunID:            uuid.NewString(),
		TotalPapers:      len(papers),
		SourceStatistics: make(map[string]types.SourceStats),
	}

	completed := 0
	for _, paper := range papers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		order := f.collectorOrder(paper.Venue)
		if len(order) == 0 {
			fmt.Fprintf(f.w, "failed  %s: no collectors registered\n", paper.ID)
			result.FailedPapers = append(result.FailedPapers, paper.ID)
			completed++
			continue
		}

		var record *types.PDFRecord
		for i, c := range order {
			stats := result.SourceStatistics[c.Name()]
			stats.Attempted++

			rec, err := c.Discover(ctx, paper)
			if err != nil {
				result.SourceStatistics[c.Name()] = stats
				fmt.Fprintf(f.w, "  %s: %v\n", paper.ID, err)
				if i == len(order)-1 {
					completed++
				}
				f.report(progress, completed, len(papers), c.Name())
				continue
			}

			stats.Successful++
			result.SourceStatistics[c.Name()] = stats
			record = rec
			completed++
			f.report(progress, completed, len(papers), c.Name())
			break
		}

		if record == nil {
			fmt.Fprintf(f.w, "failed  %s: all collectors exhausted\n", paper.ID)
			result.FailedPapers = append(result.FailedPapers, paper.ID)
			continue
		}

		fmt.Fprintf(f.w, "found   %s via %s (confidence %.2f)\n", paper.ID, record.Source, record.ConfidenceScore)
		result.Records = append(result.Records, *record)
	}

	result.Records = f.Deduplicate(papers, result.Records)
	result.DiscoveredCount = len(result.Records)
	result.ExecutionTimeSeconds = time.Since(start).Seconds()

	fmt.Fprintf(f.w, "\ndiscovered %d of %d papers in %.1fs (%d failed)\n",
		result.DiscoveredCount, result.TotalPapers, result.ExecutionTimeSeconds, len(result.FailedPapers))

	return result, nil
}

// report invokes the progress callback, recovering a panicking callback so
// it cannot abort the run.
func (f *Framework) report(progress ProgressFunc, completed, total int, source string) {
	if progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(f.w, "warning: progress callback panicked: %v\n", r)
		}
	}()
	progress(completed, total, source)
}

// Deduplicate resolves competing records for the same paper down to one,
// for example when records from separate runs are merged for reprocessing.
// The retained record is the one from the collector earliest in that
// paper's priority order; when priority is not informative, the higher
// confidence score wins; remaining ties go to the earliest discovery
// timestamp. Papers absent from the papers slice fall back to the default
// priority order. First-seen paper order is preserved in the output.
func (f *Framework) Deduplicate(papers []types.Paper, records []types.PDFRecord) []types.PDFRecord {
	venueByID := make(map[string]string, len(papers))
	for _, p := range papers {
		venueByID[p.ID] = p.Venue
	}

	best := make(map[string]types.PDFRecord)
	var order []string
	for _, rec := range records {
		cur, ok := best[rec.PaperID]
		if !ok {
			best[rec.PaperID] = rec
			order = append(order, rec.PaperID)
			continue
		}
		if f.better(rec, cur, venueByID[rec.PaperID]) {
			best[rec.PaperID] = rec
		}
	}

	if len(order) == len(records) {
		return records
	}
	deduped := make([]types.PDFRecord, 0, len(order))
	for _, id := range order {
		deduped = append(deduped, best[id])
	}
	return deduped
}

// better reports whether a should supersede b for a paper from venue.
func (f *Framework) better(a, b types.PDFRecord, venue string) bool {
	pa := f.priorityIndex(venue, a.Source)
	pb := f.priorityIndex(venue, b.Source)
	if pa != pb {
		return pa < pb
	}
	if a.ConfidenceScore != b.ConfidenceScore {
		return a.ConfidenceScore > b.ConfidenceScore
	}
	return a.DiscoveryTimestamp.Before(b.DiscoveryTimestamp)
}

// FormatStatistics writes the per-source attempt counters as a
// human-readable table, sources sorted by name.
func FormatStatistics(stats map[string]types.SourceStats, w io.Writer) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%-20s  %-9s  %s\n", "Source", "Attempted", "Successful")
	for _, name := range names {
		s := stats[name]
		fmt.Fprintf(w, "%-20s  %-9d  %d\n", name, s.Attempted, s.Successful)
	}
}
