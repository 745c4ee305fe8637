package offtarget

import (
	"bytes"
	"sort"

	"ksites-core/fasta"
	"ksites-core/pam"
	"ksites-core/seq"
)

// Reference finds candidates by scanning in-memory reference records on
// both strands. The PAM next to each hit is read from the reference and
// left for the predictor to weight, so non-canonical PAMs still count.
// Perfect matches are taken to be the on-target locus and skipped.
type Reference struct {
	records []fasta.Record
	cfg     pam.Config

	// HitCap bounds matches per record and strand; 0 is unlimited.
	HitCap int
}

// NewReference upper-cases the records once and keeps them for scanning.
func NewReference(records []fasta.Record, cfg pam.Config) *Reference {
	recs := make([]fasta.Record, len(records))
	for i, r := range records {
		recs[i] = fasta.Record{ID: r.ID, Description: r.Description, Seq: bytes.ToUpper(r.Seq)}
	}
	return &Reference{records: recs, cfg: cfg}
}

func (r *Reference) Candidates(spacer string, maxMismatches, _ int) []Candidate {
	sp := []byte(seq.Normalize(spacer))
	rc := seq.RevComp(sp)
	sl := len(sp)
	pl := r.cfg.PAMLength

	var out []Candidate
	for _, rec := range r.records {
		s := rec.Seq
		for _, m := range FindMatches(s, sp, maxMismatches, r.HitCap) {
			if m.Mismatches == 0 {
				continue
			}
			ps, pe := m.Pos+sl, m.Pos+sl+pl
			if r.cfg.Position == pam.Prime5 {
				ps, pe = m.Pos-pl, m.Pos
			}
			if ps < 0 || pe > len(s) {
				continue
			}
			pos := make([]int, len(m.MismatchIdx))
			for i, j := range m.MismatchIdx {
				pos[i] = j + 1
			}
			out = append(out, Candidate{
				Sequence:          string(s[m.Pos : m.Pos+sl]),
				Chrom:             rec.ID,
				Position:          m.Pos,
				Strand:            pam.Forward,
				MismatchPositions: pos,
				PAM:               string(s[ps:pe]),
			})
		}
		for _, m := range FindMatches(s, rc, maxMismatches, r.HitCap) {
			if m.Mismatches == 0 {
				continue
			}
			ps, pe := m.Pos-pl, m.Pos
			if r.cfg.Position == pam.Prime5 {
				ps, pe = m.Pos+sl, m.Pos+sl+pl
			}
			if ps < 0 || pe > len(s) {
				continue
			}
			pos := make([]int, len(m.MismatchIdx))
			for i, j := range m.MismatchIdx {
				pos[i] = sl - j
			}
			sort.Ints(pos)
			out = append(out, Candidate{
				Sequence:          string(seq.RevComp(s[m.Pos : m.Pos+sl])),
				Chrom:             rec.ID,
				Position:          m.Pos,
				Strand:            pam.Reverse,
				MismatchPositions: pos,
				PAM:               string(seq.RevComp(s[ps:pe])),
			})
		}
	}
	return out
}
