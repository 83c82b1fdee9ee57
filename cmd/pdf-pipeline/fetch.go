// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-pipeline/internal/cache"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [paper-ids...]",
	Short: "Resolve cached PDF paths, filling from the remote store on miss",
	Long: `Fetch returns the local file path for each paper's PDF. A local cache
hit is returned directly; on a miss, the PDF is pulled from the configured
remote document store and cached before the path is returned. Papers available
in neither place are reported as absent.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func newCacheManager() (*cache.Manager, error) {
	cfg := cacheConfig()

	var remote cache.RemoteStore
	if cfg.RemoteBaseURL != "" {
		remote = &cache.HTTPRemoteStore{
			Client:    &http.Client{Timeout: 60 * time.Second},
			BaseURL:   cfg.RemoteBaseURL,
			UserAgent: defaultUserAgent,
		}
	}

	return cache.NewManager(cfg, remote)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more paper IDs")
	}

	manager, err := newCacheManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	absent := 0
	for _, paperID := range args {
		path, ok, err := manager.GetPDFForAnalysis(context.Background(), paperID)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(os.Stdout, "%s: not available\n", paperID)
			absent++
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: %s\n", paperID, path)
	}

	if absent > 0 {
		return fmt.Errorf("%d paper(s) not available locally or remotely", absent)
	}
	return nil
}
