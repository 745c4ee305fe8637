package offtarget

import (
	"fmt"
	"math"
	"sort"

	"ksites-core/pam"
	"ksites-core/seq"
)

// Heuristic is a deterministic estimator, not a genome search. It
// derives the number of candidates from the spacer's GC deviation and
// longest repeat, places mismatches by cycling through the spacer's
// regions, and assigns synthetic coordinates and annotations.
type Heuristic struct{}

var heuristicPAMs = [...]string{"NGG", "NGG", "NAG", "NGG", "NGA", "NGG"}

func (Heuristic) Candidates(spacer string, maxMismatches, limit int) []Candidate {
	n := 3 + int(math.Abs(seq.GCContent(spacer)-0.5)*10) + (seq.MaxRepeat(spacer) - 2)
	if n > limit {
		n = limit
	}
	var out []Candidate
	for i := 0; i < n; i++ {
		k := i/3 + 1
		if k > maxMismatches {
			k = maxMismatches
		}
		positions := spreadMismatches(k, i)
		c := Candidate{
			Sequence:          mutate(spacer, positions),
			Chrom:             fmt.Sprintf("chr%d", i%22+1),
			Position:          1000000 + i*10000,
			Strand:            pam.Forward,
			MismatchPositions: positions,
			PAM:               heuristicPAMs[i%len(heuristicPAMs)],
			Location:          "intergenic",
		}
		if i%2 == 1 {
			c.Strand = pam.Reverse
		}
		switch {
		case i%10 == 0:
			c.GeneName, c.Location = fmt.Sprintf("GENE%d", i), "exonic"
		case i%3 == 0:
			c.GeneName, c.Location = fmt.Sprintf("GENE%d", i/3), "intronic"
		}
		out = append(out, c)
	}
	return out
}

// spreadMismatches places k mismatches: the first in the distal region,
// the second mid-spacer, the third just outside the seed, the rest in
// the seed.
func spreadMismatches(k, seed int) []int {
	set := make(map[int]struct{}, k)
	for m := 0; m < k; m++ {
		var p int
		switch m {
		case 0:
			p = (seed*3)%7 + 1
		case 1:
			p = (seed*5)%5 + 8
		case 2:
			p = (seed*7)%4 + 13
		default:
			p = (seed*11)%4 + 17
		}
		set[p] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// mutate substitutes each listed 1-based position with a base other than
// the one present, chosen by position.
func mutate(spacer string, positions []int) string {
	b := []byte(spacer)
	for _, p := range positions {
		if p < 1 || p > len(b) {
			continue
		}
		alts := make([]byte, 0, 4)
		for _, c := range []byte("ATGC") {
			if c != b[p-1] {
				alts = append(alts, c)
			}
		}
		b[p-1] = alts[p%len(alts)]
	}
	return string(b)
}
