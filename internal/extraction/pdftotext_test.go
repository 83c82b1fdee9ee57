// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// fakeRunner scripts external tool execution per binary name.
type fakeRunner struct {
	available map[string]bool
	output    func(name string, args []string) ([]byte, error)
	ran       [][]string
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.available[file] {
		return "/usr/bin/" + file, nil
	}
	return "", fmt.Errorf("%s not found", file)
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.ran = append(f.ran, append([]string{name}, args...))
	return f.output(name, args)
}

var samplePDFText = sampleHeader + "\n" + strings.Repeat("Body text continues with enough volume to score well. ", 80)

func TestPdftotextExtract(t *testing.T) {
	run := &fakeRunner{
		available: map[string]bool{"pdftotext": true},
		output: func(name string, args []string) ([]byte, error) {
			return []byte(samplePDFText), nil
		},
	}
	e := NewPdftotextExtractor(5)
	e.run = run

	if !e.Available() {
		t.Fatal("Available() = false with pdftotext on PATH")
	}

	paper := types.Paper{ID: "p1", Authors: []string{"Jane Smith", "Wei Chen"}}
	result, err := e.Extract(context.Background(), "/papers/p1.pdf", paper)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if result.Text != samplePDFText {
		t.Error("Text does not match tool output")
	}
	if result.Confidence < 0.3 {
		t.Errorf("Confidence = %v, want a passing score for clean text", result.Confidence)
	}
	if result.Cost != 0 {
		t.Errorf("Cost = %v, want 0 for a local tool", result.Cost)
	}
	if len(result.Affiliations) == 0 {
		t.Error("Affiliations empty, want header parse results")
	}

	// The page bound reaches the command line.
	cmd := run.ran[0]
	want := []string{"pdftotext", "-layout", "-l", "5", "/papers/p1.pdf", "-"}
	if strings.Join(cmd, " ") != strings.Join(want, " ") {
		t.Errorf("command = %v, want %v", cmd, want)
	}
}

func TestPdftotextExtractNoTextLayer(t *testing.T) {
	run := &fakeRunner{
		output: func(name string, args []string) ([]byte, error) {
			return []byte("   \n\n  "), nil
		},
	}
	e := NewPdftotextExtractor(0)
	e.run = run

	_, err := e.Extract(context.Background(), "/papers/scan.pdf", types.Paper{ID: "p1"})
	if err == nil || !strings.Contains(err.Error(), "no text layer") {
		t.Errorf("err = %v, want no-text-layer error to trigger fallback", err)
	}
}

func TestPdftotextExtractToolFailure(t *testing.T) {
	run := &fakeRunner{
		output: func(name string, args []string) ([]byte, error) {
			return nil, fmt.Errorf("pdftotext: broken file")
		},
	}
	e := NewPdftotextExtractor(0)
	e.run = run

	if _, err := e.Extract(context.Background(), "/papers/bad.pdf", types.Paper{ID: "p1"}); err == nil {
		t.Error("expected error when the tool fails")
	}
}

func TestPdftotextUnavailable(t *testing.T) {
	e := NewPdftotextExtractor(0)
	e.run = &fakeRunner{}
	if e.Available() {
		t.Error("Available() = true without pdftotext on PATH")
	}
}

func TestTextConfidence(t *testing.T) {
	clean := strings.Repeat("plausible sentence with ordinary words here ", 120)
	if got := textConfidence(clean); got < 0.9 {
		t.Errorf("textConfidence(clean) = %v, want near the cap", got)
	}
	if got := textConfidence(clean); got > 0.95 {
		t.Errorf("textConfidence = %v, want capped at 0.95", got)
	}

	if got := textConfidence(""); got != 0 {
		t.Errorf("textConfidence(empty) = %v, want 0", got)
	}

	short := "tiny"
	if got := textConfidence(short); got > 0.3 {
		t.Errorf("textConfidence(short) = %v, want a low score", got)
	}

	soup := strings.Repeat("xqzkjwpfmdnvtrblg", 300)
	if soupScore := textConfidence(soup); soupScore >= textConfidence(clean) {
		t.Errorf("glyph soup scored %v, want below clean text", soupScore)
	}
}
