// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import "testing"

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Attention Is All You Need", "attention is all you need"},
		{"BERT: Pre-training of Deep   Bidirectional Transformers", "bert pretraining of deep bidirectional transformers"},
		{"  Spaces  Everywhere  ", "spaces everywhere"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Attention Is All You Need", "attention is all you need", 1.0},
		{"punctuation ignored", "BERT: Pre-training", "BERT Pre-training", 1.0},
		{"disjoint", "Quantum Lattice Dynamics", "Neural Machine Translation", 0.0},
		{"empty", "", "anything", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("titleSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTitleSimilarityPartialOverlap(t *testing.T) {
	sim := titleSimilarity("deep learning for images", "deep learning for text")
	if sim <= 0 || sim >= 1 {
		t.Errorf("similarity = %v, want strictly between 0 and 1", sim)
	}
	if sim < minTitleSimilarity {
		t.Errorf("similarity = %v for a 3-of-5-token overlap, want above the accept threshold", sim)
	}
}
