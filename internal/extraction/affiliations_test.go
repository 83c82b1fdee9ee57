// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"strings"
	"testing"
)

const sampleHeader = `Learning to Route Packets with Reinforcement Learning

Jane Smith1*          Wei Chen2
1MIT, Cambridge, USA
2Tsinghua University, Beijing, China

Abstract
We present a reinforcement learning approach to packet routing.`

func TestParseAffiliations(t *testing.T) {
	authors := []string{"Jane Smith", "Wei Chen"}
	affs := parseAffiliations(sampleHeader, authors)

	if len(affs) != 2 {
		t.Fatalf("len(affs) = %d, want 2: %+v", len(affs), affs)
	}
	if affs[0].Country != "United States" {
		t.Errorf("affs[0].Country = %q, want United States", affs[0].Country)
	}
	if affs[1].Country != "China" {
		t.Errorf("affs[1].Country = %q, want China", affs[1].Country)
	}
}

func TestParseAffiliationsInstitutionFallback(t *testing.T) {
	text := `Some Paper Title

Carnegie Mellon University, Pittsburgh, USA

Abstract
Text follows.`

	affs := parseAffiliations(text, nil)
	if len(affs) != 1 {
		t.Fatalf("len(affs) = %d, want 1: %+v", len(affs), affs)
	}
	if affs[0].Name != "Carnegie Mellon University" {
		t.Errorf("Name = %q, want institution fallback", affs[0].Name)
	}
	if affs[0].Country != "United States" {
		t.Errorf("Country = %q, want United States", affs[0].Country)
	}
}

func TestParseAffiliationsNothingFound(t *testing.T) {
	affs := parseAffiliations("Title only\n\nAbstract\nbody", nil)
	if len(affs) != 0 {
		t.Errorf("affs = %+v, want empty", affs)
	}
}

func TestHeaderBlockStopsAtAbstract(t *testing.T) {
	header := headerBlock(sampleHeader)
	for _, line := range header {
		if strings.Contains(line, "reinforcement learning approach") {
			t.Errorf("header contains body text past the abstract heading")
		}
	}
}

func TestHeaderBlockLimit(t *testing.T) {
	text := strings.Repeat("line\n", 200)
	header := headerBlock(text)
	if len(header) > headerLineLimit {
		t.Errorf("len(header) = %d, want at most %d", len(header), headerLineLimit)
	}
}

func TestFindCountry(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"MIT, Cambridge, USA", "United States"},
		{"University of Toronto, Canada.", "Canada"},
		{"ETH Zurich, Switzerland", "Switzerland"},
		{"KAIST, Daejeon, South Korea", "South Korea"},
		{"The Netherlands", "Netherlands"},
		{"Department of Computer Science", ""},
	}
	for _, tt := range tests {
		if got := findCountry(tt.line); got != tt.want {
			t.Errorf("findCountry(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestMatchAuthor(t *testing.T) {
	authors := []string{"Jane Smith", "Wei Chen"}

	tests := []struct {
		line string
		want string
	}{
		{"Jane Smith", "Jane Smith"},
		{"Jane Smith1*", "Jane Smith"},
		{"jane smith", "Jane Smith"},
		{"Wei Chen and others", "Wei Chen"},
		{"No Author Here", ""},
	}
	for _, tt := range tests {
		if got := matchAuthor(tt.line, authors); got != tt.want {
			t.Errorf("matchAuthor(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestStripMarkers(t *testing.T) {
	if got := stripMarkers("Jane Smith1*†"); got != "Jane Smith" {
		t.Errorf("stripMarkers = %q, want markers removed", got)
	}
}
