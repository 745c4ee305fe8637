package offtarget

import (
	"bytes"

	"ksites-core/seq"
)

// Match is a mismatch-tolerant occurrence of a pattern.
type Match struct {
	Pos         int
	Mismatches  int
	MismatchIdx []int // 0-based offsets into the pattern
}

func isUnambiguous(p []byte) bool {
	for _, c := range p {
		if c != 'A' && c != 'C' && c != 'G' && c != 'T' {
			return false
		}
	}
	return true
}

// FindMatches returns every window of s matching pattern with at most
// maxMM mismatches. capHits == 0 means unlimited.
func FindMatches(s, pattern []byte, maxMM, capHits int) []Match {
	pl := len(pattern)
	if pl == 0 || len(s) < pl {
		return nil
	}

	if maxMM <= 0 && isUnambiguous(pattern) {
		var out []Match
		for i := 0; ; {
			j := bytes.Index(s[i:], pattern)
			if j < 0 {
				break
			}
			out = append(out, Match{Pos: i + j})
			if capHits > 0 && len(out) >= capHits {
				break
			}
			i += j + 1
		}
		return out
	}

	var out []Match
window:
	for pos := 0; pos+pl <= len(s); pos++ {
		var idx []int
		for j := 0; j < pl; j++ {
			if !seq.BaseMatch(s[pos+j], pattern[j]) {
				idx = append(idx, j)
				if len(idx) > maxMM {
					continue window
				}
			}
		}
		out = append(out, Match{Pos: pos, Mismatches: len(idx), MismatchIdx: idx})
		if capHits > 0 && len(out) >= capHits {
			break
		}
	}
	return out
}
