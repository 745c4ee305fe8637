// core/seq/iupac.go
package seq

/* -------------------------- IUPAC lookup table -------------------------- */

var iupacMask [256]byte // bit0=A bit1=C bit2=G bit3=T

func init() {
	set := func(c byte, bits byte) {
		iupacMask[c] = bits
		iupacMask[c|0x20] = bits
	}
	set('A', 1)
	set('C', 2)
	set('G', 4)
	set('T', 8)
	set('U', 8)
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // not A
	set('D', 1|4|8)   // not C
	set('H', 1|2|8)   // not G
	set('V', 1|2|4)   // not T
	set('N', 1|2|4|8) // pattern side only
}

// BaseMatch reports whether pattern base p admits sequence base g.
// A sequence base that is not A/C/G/T (either case) never matches, so
// runs of N in a sequence cannot produce hits.
func BaseMatch(g, p byte) bool {
	switch g {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return iupacMask[p]&iupacMask[g] != 0
	}
	return false
}

// MatchAt reports whether pattern matches s starting at offset pos.
func MatchAt(s []byte, pos int, pattern []byte) bool {
	if pos < 0 || pos+len(pattern) > len(s) {
		return false
	}
	for j := range pattern {
		if !BaseMatch(s[pos+j], pattern[j]) {
			return false
		}
	}
	return true
}

// IsIUPAC reports whether every byte of p is a known IUPAC code.
func IsIUPAC(p []byte) bool {
	for _, c := range p {
		if iupacMask[c] == 0 {
			return false
		}
	}
	return true
}
