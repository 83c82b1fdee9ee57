// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-pipeline/internal/discovery"
	"github.com/pdiddy/pdf-pipeline/internal/extraction"
	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [paper-ids...]",
	Short: "Extract text and affiliations from cached PDFs",
	Long: `Extract runs each paper's cached PDF through the extraction chain:
pdftotext first, OCR as fallback, and the cloud vision API as a last resort.
The first result that passes validation wins. Results are written as YAML
files to the output directory along with a cost summary.

With no paper IDs, every paper in the papers file is processed.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("papers", "papers.yaml", "papers file (YAML)")
	extractCmd.Flags().Bool("affiliations", false, "require author affiliations in extraction output")
	extractCmd.Flags().String("out", "", "output directory for result files (default: extraction.output_dir)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	papersPath, _ := cmd.Flags().GetString("papers")
	needAffiliations, _ := cmd.Flags().GetBool("affiliations")
	outDir, _ := cmd.Flags().GetString("out")

	papers, err := discovery.ReadPapersFile(papersPath)
	if err != nil {
		return err
	}
	selected, err := selectPapers(papers, args)
	if err != nil {
		return err
	}

	cfg := extractionConfig()
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	manager, err := newCacheManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	costs := extraction.NewCostTracker()
	processor := extraction.NewProcessor(extraction.NewValidator(cfg), costs, os.Stdout)
	processor.Register(extraction.NewPdftotextExtractor(cfg.MaxPages), 1, true)
	processor.Register(extraction.NewOCRExtractor(cfg.MaxPages), 2, true)
	if cfg.VisionAPIKey != "" {
		client := &http.Client{Timeout: cfg.Timeout}
		processor.Register(extraction.NewVisionExtractor(client, cfg.VisionAPIKey, cfg.VisionCostPerPage, cfg.MaxPages), 3, true)
	}

	failed := 0
	for _, paper := range selected {
		path, ok, err := manager.GetPDFForAnalysis(context.Background(), paper.ID)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(os.Stdout, "%s: no cached PDF, skipping\n", paper.ID)
			failed++
			continue
		}

		result := processor.Process(context.Background(), path, paper, needAffiliations)
		if result.Failed() {
			failed++
		}

		written, err := extraction.WriteResultFile(outDir, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: method=%s confidence=%.2f -> %s\n",
			paper.ID, result.Method, result.Confidence, written)
	}

	printCostSummary(costs.Summary())

	if failed > 0 {
		return fmt.Errorf("%d paper(s) failed extraction", failed)
	}
	return nil
}

// selectPapers filters the papers file down to the requested IDs. Unknown IDs
// are an error so typos do not silently process nothing.
func selectPapers(papers []types.Paper, ids []string) ([]types.Paper, error) {
	if len(ids) == 0 {
		return papers, nil
	}

	byID := make(map[string]types.Paper, len(papers))
	for _, p := range papers {
		byID[p.ID] = p
	}

	selected := make([]types.Paper, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("paper %q not found in papers file", id)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

func printCostSummary(summary types.CostSummary) {
	if summary.TotalOperations == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "\nExtraction costs: $%.4f across %d operation(s), $%.4f average\n",
		summary.TotalCost, summary.TotalOperations, summary.AverageCostPerOperation)
	for extractor, cost := range summary.CostByExtractor {
		fmt.Fprintf(os.Stdout, "  %-12s $%.4f\n", extractor, cost)
	}
}
