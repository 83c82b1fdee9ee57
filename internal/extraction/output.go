// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// WriteResultFile marshals an extraction result to
// outDir/<paperID>-extraction.yaml, creating outDir as needed.
func WriteResultFile(outDir string, result *types.ExtractionResult) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshaling extraction result: %w", err)
	}

	// Paper identifiers may be DOIs; keep filenames filesystem-safe.
	slug := strings.NewReplacer("/", "-", ":", "-", " ", "_").Replace(result.PaperID)
	path := filepath.Join(outDir, slug+"-extraction.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadResultFile loads a previously written extraction result.
func ReadResultFile(path string) (*types.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading extraction result: %w", err)
	}
	var result types.ExtractionResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing extraction result %s: %w", path, err)
	}
	return &result, nil
}
