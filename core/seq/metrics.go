package seq

import "strings"

// GCContent returns the fraction of G/C bases in s (case-insensitive).
// An empty sequence has GC content 0.
func GCContent(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'G', 'C', 'g', 'c':
			n++
		}
	}
	return float64(n) / float64(len(s))
}

// HasPolyT reports a run of at least minRun consecutive T bases, the
// Pol III terminator signal for U6-driven guide expression.
func HasPolyT(s string, minRun int) bool {
	if minRun <= 0 {
		return false
	}
	return strings.Contains(strings.ToUpper(s), strings.Repeat("T", minRun))
}

// MaxRepeat returns the length of the longest run of one repeated base.
// Comparison is case-insensitive; the empty string yields 0.
func MaxRepeat(s string) int {
	if len(s) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(s); i++ {
		if upper(s[i]) == upper(s[i-1]) {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 1
	}
	return best
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 0x20
	}
	return c
}
