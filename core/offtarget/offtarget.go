// Package offtarget predicts and scores unintended binding sites for a
// spacer. Candidate sites come from a Source; scoring is CFD weighted by
// the candidate PAM's quality.
package offtarget

import (
	"sort"

	"ksites-core/pam"
	"ksites-core/score"
)

// OffTarget is one scored candidate site. CFD is the mismatch-only
// activity; Score additionally weights it by PAM quality.
type OffTarget struct {
	Sequence          string
	Chrom             string
	Position          int
	Strand            pam.Strand
	Mismatches        int
	MismatchPositions []int // 1-based, ascending, spacer orientation
	PAM               string
	PAMQuality        float64
	CFD               float64
	Score             float64
	GeneName          string
	GeneID            string
	Location          string
	Severity          score.Severity
}

// Candidate is an unscored site produced by a Source.
type Candidate struct {
	Sequence          string
	Chrom             string
	Position          int
	Strand            pam.Strand
	MismatchPositions []int
	PAM               string
	GeneName          string
	GeneID            string
	Location          string
}

// Source yields candidate sites for a spacer with at most maxMismatches
// mismatches. limit is the number of results the caller will keep; a
// source may use it to bound its work.
type Source interface {
	Candidates(spacer string, maxMismatches, limit int) []Candidate
}

// MinScore is the final score below which a candidate is dropped.
const MinScore = 0.05

// Defaults used by the designer.
const (
	DefaultMaxMismatches = 4
	DefaultMaxResults    = 50
)

type Predictor struct {
	src Source
}

// NewPredictor returns a Predictor over src; a nil src uses Heuristic.
func NewPredictor(src Source) *Predictor {
	if src == nil {
		src = Heuristic{}
	}
	return &Predictor{src: src}
}

// Predict scores every candidate for spacer, drops those under MinScore,
// and returns at most maxResults sites sorted by descending score. Ties
// keep source order.
func (p *Predictor) Predict(spacer string, maxMismatches, maxResults int) []OffTarget {
	if maxResults <= 0 {
		return nil
	}
	var out []OffTarget
	for _, c := range p.src.Candidates(spacer, maxMismatches, maxResults) {
		pos := uniqueSorted(c.MismatchPositions)
		cfd := score.CFD(pos)
		q := pam.Quality(c.PAM)
		final := cfd * q
		if final < MinScore {
			continue
		}
		out = append(out, OffTarget{
			Sequence:          c.Sequence,
			Chrom:             c.Chrom,
			Position:          c.Position,
			Strand:            c.Strand,
			Mismatches:        len(pos),
			MismatchPositions: pos,
			PAM:               c.PAM,
			PAMQuality:        q,
			CFD:               cfd,
			Score:             final,
			GeneName:          c.GeneName,
			GeneID:            c.GeneID,
			Location:          c.Location,
			Severity:          score.OffTargetSeverity(final, len(pos)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

func uniqueSorted(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	out := append([]int(nil), in...)
	sort.Ints(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
