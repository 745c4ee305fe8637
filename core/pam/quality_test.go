package pam

import "testing"

func TestQuality(t *testing.T) {
	tests := []struct {
		pam  string
		want float64
	}{
		{"AGG", 1.0},
		{"ngg", 1.0},
		{"NNGRRT", 0.9},
		{"TTTA", 0.85},
		{"GAT", 0.8},
		{"AAG", 0.3},
		{"TGA", 0.2},
		{"TTGG", 1.0},
		{"CCAG", 0.3},
		{"ACGA", 0.2},
		{"GG", 0.1},
		{"ACGTCT", 0.1},
		{"", 0.1},
	}
	for _, tt := range tests {
		if got := Quality(tt.pam); got != tt.want {
			t.Errorf("Quality(%q) = %v, want %v", tt.pam, got, tt.want)
		}
	}
}

func TestQualityCodomain(t *testing.T) {
	allowed := map[float64]bool{1.0: true, 0.9: true, 0.85: true, 0.8: true, 0.3: true, 0.2: true, 0.1: true}
	bases := "ACGTN"
	var walk func(prefix string, n int)
	walk = func(prefix string, n int) {
		if q := Quality(prefix); !allowed[q] {
			t.Fatalf("Quality(%q) = %v outside the fixed value set", prefix, q)
		}
		if n == 0 {
			return
		}
		for i := 0; i < len(bases); i++ {
			walk(prefix+bases[i:i+1], n-1)
		}
	}
	walk("", 4)
}
