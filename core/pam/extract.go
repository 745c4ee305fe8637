package pam

import (
	"bytes"

	"ksites-core/seq"
)

// Extract returns the spacer for site in protospacer orientation, or ""
// when the spacer would run past either end of s. The PAM length is taken
// from the matched PAM so variable-length alternatives line up with the
// bounds FindSites checked.
func Extract(s []byte, site Site, cfg Config) string {
	pamLen := len(site.PAM)
	if pamLen == 0 {
		pamLen = cfg.PAMLength
	}
	sl := cfg.SpacerLen
	downstream := func() (int, int) { return site.Pos + pamLen, site.Pos + pamLen + sl }
	upstream := func() (int, int) { return site.Pos - sl, site.Pos }

	var start, end int
	switch {
	case site.Strand == Forward && cfg.Position == Prime5:
		start, end = downstream()
	case site.Strand == Forward:
		start, end = upstream()
	case cfg.Position == Prime5:
		start, end = upstream()
	default:
		start, end = downstream()
	}
	if start < 0 || end > len(s) || start >= end {
		return ""
	}
	sp := bytes.ToUpper(s[start:end])
	if site.Strand == Reverse {
		return string(seq.RevComp(sp))
	}
	return string(sp)
}
