// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local PDF cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache entry counts and disk usage",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	manager, err := newCacheManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	stats, err := manager.Statistics()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Entries:     %d\n", stats.Entries)
	fmt.Fprintf(os.Stdout, "Local files: %d\n", stats.Files)
	fmt.Fprintf(os.Stdout, "Disk usage:  %.1f MB\n", float64(stats.TotalBytes)/(1<<20))
	return nil
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove cached files older than the TTL",
	Long: `Cleanup deletes local PDF files whose cache entries are older than the
TTL. Remote identifiers and metadata are kept, so evicted papers can still be
re-fetched from the remote store.`,
	RunE: runCacheCleanup,
}

func runCacheCleanup(cmd *cobra.Command, args []string) error {
	ttl, _ := cmd.Flags().GetDuration("ttl")
	if ttl == 0 {
		ttl = cacheConfig().TTL
	}

	manager, err := newCacheManager()
	if err != nil {
		return err
	}
	defer manager.Close()

	removed, err := manager.CleanupCache(ttl)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Removed %d cached file(s) older than %s\n", removed, ttl)
	return nil
}

func init() {
	cacheCleanupCmd.Flags().Duration("ttl", 0, "staleness bound (default: cache.ttl, 720h)")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	rootCmd.AddCommand(cacheCmd)
}
