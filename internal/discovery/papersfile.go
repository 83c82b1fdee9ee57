// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// PapersFile is the on-disk representation of a paper batch. The upstream
// collection stage writes one; discovery reads it.
type PapersFile struct {
	Papers []types.Paper `yaml:"papers"`
}

// ReadPapersFile loads a paper batch from a YAML file. Papers without an
// identifier are rejected, since the identifier keys every downstream
// stage.
func ReadPapersFile(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading papers file: %w", err)
	}

	var pf PapersFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing papers file %s: %w", path, err)
	}

	if len(pf.Papers) == 0 {
		return nil, fmt.Errorf("papers file %s contains no papers", path)
	}

	seen := make(map[string]bool, len(pf.Papers))
	for i, p := range pf.Papers {
		if p.ID == "" {
			return nil, fmt.Errorf("papers file %s: paper %d has no id", path, i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("papers file %s: duplicate paper id %q", path, p.ID)
		}
		seen[p.ID] = true
	}

	return pf.Papers, nil
}

// WriteResultFile saves a DiscoveryResult to a YAML file for downstream
// reporting, creating the parent directory if needed.
func WriteResultFile(path string, result *types.DiscoveryResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling discovery result: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating result directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved DiscoveryResult, e.g. to merge
// records from separate passes before reprocessing.
func ReadResultFile(path string) (*types.DiscoveryResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var result types.DiscoveryResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing result file %s: %w", path, err)
	}
	return &result, nil
}
