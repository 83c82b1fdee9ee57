// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// CostTracker is an append-only ledger of extraction costs. Records are
// never mutated after being appended; corrections require a new record.
// Safe for concurrent use.
type CostTracker struct {
	mu      sync.Mutex
	records []types.CostRecord
	total   float64
}

// NewCostTracker returns an empty ledger.
func NewCostTracker() *CostTracker {
	return &CostTracker{}
}

// RecordExtractionCost appends one record and updates the running total.
func (t *CostTracker) RecordExtractionCost(extractor, operation string, cost float64, details map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records = append(t.records, types.CostRecord{
		ID:        uuid.NewString(),
		Extractor: extractor,
		Operation: operation,
		Cost:      cost,
		Timestamp: time.Now().UTC(),
		Details:   details,
	})
	t.total += cost
}

// TotalCost returns the running total.
func (t *CostTracker) TotalCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Records returns a copy of the ledger in append order.
func (t *CostTracker) Records() []types.CostRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.CostRecord, len(t.records))
	copy(out, t.records)
	return out
}

// CostByExtractor returns total cost grouped by extractor name.
func (t *CostTracker) CostByExtractor() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]float64)
	for _, r := range t.records {
		out[r.Extractor] += r.Cost
	}
	return out
}

// CostByOperation returns total cost grouped by operation type.
func (t *CostTracker) CostByOperation() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]float64)
	for _, r := range t.records {
		out[r.Operation] += r.Cost
	}
	return out
}

// OperationCounts returns the number of operations by type.
func (t *CostTracker) OperationCounts() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]int)
	for _, r := range t.records {
		out[r.Operation]++
	}
	return out
}

// Summary combines totals with an average cost per operation. The average
// is zero when no records exist.
func (t *CostTracker) Summary() types.CostSummary {
	byExtractor := t.CostByExtractor()
	byOperation := t.CostByOperation()
	counts := t.OperationCounts()

	t.mu.Lock()
	defer t.mu.Unlock()

	summary := types.CostSummary{
		TotalCost:       t.total,
		TotalOperations: len(t.records),
		CostByExtractor: byExtractor,
		CostByOperation: byOperation,
		OperationCounts: counts,
	}
	if summary.TotalOperations > 0 {
		summary.AverageCostPerOperation = summary.TotalCost / float64(summary.TotalOperations)
	}
	return summary
}

// Reset clears all state.
func (t *CostTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = nil
	t.total = 0
}
