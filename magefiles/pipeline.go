//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// runCLI builds the binary if needed and runs it with the given arguments,
// streaming output to the terminal.
func runCLI(args ...string) error {
	bin := filepath.Join(binDir, binName)
	if _, err := os.Stat(bin); err != nil {
		if err := Build(); err != nil {
			return err
		}
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", binName, args, err)
	}
	return nil
}

// Discover runs PDF discovery for the papers listed in papers.yaml and
// downloads every discovered PDF into the local cache.
func Discover() error {
	return runCLI("discover", "--papers", "papers.yaml", "--download")
}

// Extract runs the extraction chain over cached PDFs for papers.yaml.
func Extract() error {
	return runCLI("extract", "--papers", "papers.yaml")
}
