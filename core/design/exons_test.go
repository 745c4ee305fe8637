package design

import (
	"reflect"
	"testing"
)

func TestEstimateExons(t *testing.T) {
	tests := []struct {
		n    int
		want []Exon
	}{
		{0, nil},
		{499, []Exon{{0, 499, 1}}},
		{1000, []Exon{{0, 333, 1}, {333, 666, 2}, {666, 999, 3}}},
		{2000, []Exon{{0, 500, 1}, {500, 1000, 2}, {1000, 1500, 3}, {1500, 2000, 4}}},
	}
	for _, tt := range tests {
		if got := EstimateExons(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("EstimateExons(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
	if got := EstimateExons(100000); len(got) != 8 {
		t.Errorf("large transcript: %d exons, want 8", len(got))
	}
}
