// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// runner abstracts external tool execution so tests can fake the poppler
// and tesseract binaries.
type runner interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %s: %w", name, msg, err)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

var defaultRunner runner = osRunner{}

// toolAvailable reports whether the named binary exists on PATH.
func toolAvailable(run runner, name string) bool {
	_, err := run.LookPath(name)
	return err == nil
}
