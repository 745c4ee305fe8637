package pam

import (
	"bytes"

	"ksites-core/seq"
)

// Window is a half-open exon interval [Start, End) with its 1-based number.
type Window struct {
	Start, End int
	Number     int
}

// Site is one PAM occurrence. Pos is the 0-based start of the PAM hit on
// the forward sequence; for reverse-strand sites PAM is already reverse
// complemented into protospacer orientation.
type Site struct {
	Pos    int
	PAM    string
	Strand Strand
	Exon   int
}

// DefaultExonCount is how many leading exons are scanned when no target
// exons are requested.
const DefaultExonCount = 3

// Regions picks the windows to scan: the requested exons when given,
// otherwise the first DefaultExonCount exons, otherwise the whole
// sequence as exon 1.
func Regions(seqLen int, exons []Window, targetExons []int) []Window {
	if len(exons) == 0 {
		return []Window{{Start: 0, End: seqLen, Number: 1}}
	}
	if len(targetExons) == 0 {
		n := DefaultExonCount
		if n > len(exons) {
			n = len(exons)
		}
		return append([]Window(nil), exons[:n]...)
	}
	want := make(map[int]bool, len(targetExons))
	for _, n := range targetExons {
		want[n] = true
	}
	var out []Window
	for _, w := range exons {
		if want[w.Number] {
			out = append(out, w)
		}
	}
	return out
}

// FindSites scans the selected regions of s for PAM sites of cfg on both
// strands. Within a region the forward strand is scanned first, then the
// reverse; each scan is leftmost and non-overlapping with alternatives
// tried in catalog order. Only sites leaving room for a full spacer
// inside s are kept. Nothing is deduplicated.
func FindSites(s []byte, exons []Window, targetExons []int, cfg Config) []Site {
	up := bytes.ToUpper(s)
	fwd := toBytes(cfg.Forward)
	rev := toBytes(cfg.Reverse)

	var out []Site
	for _, w := range Regions(len(up), exons, targetExons) {
		start, end := clamp(w.Start, len(up)), clamp(w.End, len(up))
		if start >= end {
			continue
		}
		region := up[start:end]

		for _, h := range scanRegion(region, fwd) {
			pos := start + h.off
			hit := region[h.off : h.off+h.n]
			ok := pos-cfg.SpacerLen >= 0
			if cfg.Position == Prime5 {
				ok = pos+h.n+cfg.SpacerLen <= len(up)
			}
			if ok {
				out = append(out, Site{Pos: pos, PAM: string(hit), Strand: Forward, Exon: w.Number})
			}
		}
		for _, h := range scanRegion(region, rev) {
			pos := start + h.off
			hit := region[h.off : h.off+h.n]
			ok := pos+h.n+cfg.SpacerLen <= len(up)
			if cfg.Position == Prime5 {
				ok = pos-cfg.SpacerLen >= 0
			}
			if ok {
				out = append(out, Site{Pos: pos, PAM: string(seq.RevComp(hit)), Strand: Reverse, Exon: w.Number})
			}
		}
	}
	return out
}

type hit struct{ off, n int }

// scanRegion returns leftmost non-overlapping matches; at each offset the
// first matching alternative wins and scanning resumes after it.
func scanRegion(region []byte, alts [][]byte) []hit {
	var out []hit
	for p := 0; p < len(region); {
		matched := 0
		for _, a := range alts {
			if seq.MatchAt(region, p, a) {
				matched = len(a)
				break
			}
		}
		if matched == 0 {
			p++
			continue
		}
		out = append(out, hit{off: p, n: matched})
		p += matched
	}
	return out
}

func toBytes(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func clamp(x, n int) int {
	if x < 0 {
		return 0
	}
	if x > n {
		return n
	}
	return x
}
