// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-pipeline/internal/cache"
	"github.com/pdiddy/pdf-pipeline/internal/discovery"
	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Locate open-access PDFs for a batch of papers",
	Long: `Discover reads a papers file, tries each configured source in venue
priority order until one yields a PDF, and writes a discovery result file with
per-source statistics. With --download, discovered PDFs are fetched into the
local cache as well.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().String("papers", "papers.yaml", "papers file (YAML)")
	discoverCmd.Flags().String("out", "", "result file path (default: results/discovery-<run-id>.yaml)")
	discoverCmd.Flags().Bool("download", false, "download discovered PDFs into the local cache")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
	papersPath, _ := cmd.Flags().GetString("papers")
	outPath, _ := cmd.Flags().GetString("out")
	download, _ := cmd.Flags().GetBool("download")

	papers, err := discovery.ReadPapersFile(papersPath)
	if err != nil {
		return err
	}

	cfg := discoveryConfig()
	client := &http.Client{Timeout: cfg.Timeout}

	framework := discovery.NewFramework(cfg, os.Stdout)
	for _, c := range discovery.DefaultCollectors(cfg, client) {
		framework.Register(c)
	}

	result, err := framework.DiscoverPDFs(context.Background(), papers, func(completed, total int, source string) {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", completed, total, source)
	})
	if err != nil {
		return err
	}

	discovery.FormatStatistics(result.SourceStatistics, os.Stdout)

	if outPath == "" {
		outPath = fmt.Sprintf("results/discovery-%s.yaml", result.RunID)
	}
	if err := discovery.WriteResultFile(outPath, result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", outPath)

	if download {
		if err := downloadRecords(cmd.Context(), client, cfg.UserAgent, result); err != nil {
			return err
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) had no discoverable PDF", len(result.FailedPapers))
	}
	return nil
}

// downloadRecords fetches every discovered PDF into the local cache. Records
// that fail to download are reported but do not abort the batch.
func downloadRecords(ctx context.Context, client *http.Client, userAgent string, result *types.DiscoveryResult) error {
	manager, err := cache.NewManager(cacheConfig(), nil)
	if err != nil {
		return err
	}
	defer manager.Close()

	failed := 0
	for _, record := range result.Records {
		if manager.IsCached(record.PaperID) {
			fmt.Fprintf(os.Stdout, "  %s: already cached\n", record.PaperID)
			continue
		}
		data, err := discovery.DownloadRecord(ctx, client, record.PDFURL, userAgent)
		if err != nil {
			fmt.Fprintf(os.Stdout, "  %s: download failed: %v\n", record.PaperID, err)
			failed++
			continue
		}
		path, err := manager.SaveToCache(record.PaperID, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  %s: cached %s (%d bytes)\n", record.PaperID, path, len(data))
	}
	if failed > 0 {
		return fmt.Errorf("%d PDF(s) failed to download", failed)
	}
	return nil
}
