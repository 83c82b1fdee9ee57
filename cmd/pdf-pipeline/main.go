// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-pipeline CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-pipeline/internal/secrets"
	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "pdf-pipeline/0.1"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the pdf-pipeline CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf-pipeline",
	Short: "Discover, cache, and extract text from academic paper PDFs",
	Long: `pdf-pipeline locates open-access PDFs for academic papers across multiple
sources (arXiv, Unpaywall, OpenAlex, Semantic Scholar, publisher landing pages),
caches the documents locally with a remote-store fallback, and extracts text and
author affiliations through a layered chain of extractors.

Each stage is a subcommand: discover, fetch, extract, and cache.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf-pipeline.yaml or ~/.config/pdf-pipeline/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf-pipeline")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf-pipeline"))
		}
	}

	viper.SetEnvPrefix("PDF_PIPELINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// discoveryConfig assembles the discovery stage configuration from the config
// file, with secrets filling credential gaps.
func discoveryConfig() types.DiscoveryConfig {
	cfg := types.DiscoveryConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viperDuration("discovery.timeout", 30*time.Second),
			UserAgent: defaultUserAgent,
		},
		EnableArxiv:           viperBool("discovery.enable_arxiv", true),
		EnableUnpaywall:       viperBool("discovery.enable_unpaywall", true),
		EnableOpenAlex:        viperBool("discovery.enable_openalex", true),
		EnableSemanticScholar: viperBool("discovery.enable_semantic_scholar", true),
		EnableLandingPage:     viperBool("discovery.enable_landing_page", true),
	}

	if err := viper.UnmarshalKey("discovery.venue_priorities", &cfg.VenuePriorities); err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid discovery.venue_priorities: %v\n", err)
	}
	cfg.DefaultPriority = viper.GetStringSlice("discovery.default_priority")
	if err := viper.UnmarshalKey("discovery.requests_per_minute", &cfg.RequestsPerMinute); err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid discovery.requests_per_minute: %v\n", err)
	}

	cfg.UnpaywallEmail = loadedSecrets.Get("unpaywall-email", viper.GetString("discovery.unpaywall_email"))
	cfg.OpenAlexEmail = loadedSecrets.Get("openalex-email", viper.GetString("discovery.openalex_email"))
	cfg.SemanticScholarAPIKey = loadedSecrets.Get("semantic-scholar-api-key", viper.GetString("discovery.semantic_scholar_api_key"))

	return cfg
}

func cacheConfig() types.CacheConfig {
	return types.CacheConfig{
		CacheDir:      viperString("cache.dir", "cache"),
		RemoteBaseURL: viper.GetString("cache.remote_base_url"),
		TTL:           viperDuration("cache.ttl", 30*24*time.Hour),
	}
}

func extractionConfig() types.ExtractionConfig {
	cfg := types.ExtractionConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viperDuration("extraction.timeout", 60*time.Second),
			UserAgent: defaultUserAgent,
		},
		OutputDir:         viperString("extraction.output_dir", "extracted"),
		MaxPages:          viper.GetInt("extraction.max_pages"),
		MinConfidence:     viper.GetFloat64("extraction.min_confidence"),
		MinTextLength:     viper.GetInt("extraction.min_text_length"),
		MinAffiliations:   viper.GetInt("extraction.min_affiliations"),
		VisionCostPerPage: viper.GetFloat64("extraction.vision_cost_per_page"),
	}
	cfg.VisionAPIKey = loadedSecrets.Get("vision-api-key", viper.GetString("extraction.vision_api_key"))
	return cfg
}

func viperString(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func viperBool(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}

func viperDuration(key string, fallback time.Duration) time.Duration {
	if v := viper.GetDuration(key); v != 0 {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
