// Package risk turns a guide's off-target profile into a specificity
// score and a safety classification.
package risk

import (
	"math"

	"ksites-core/offtarget"
	"ksites-core/score"
)

var severityPenalty = map[score.Severity]float64{
	score.Critical: 0.15,
	score.High:     0.08,
	score.Medium:   0.03,
}

const (
	countPenaltyPer = 0.03
	countPenaltyCap = 0.4
	severityCap     = 0.5
	pamBonusScale   = 0.1
)

// Specificity aggregates off-targets into a score in [0,1]. A guide with
// no predicted off-targets is fully specific regardless of PAM quality.
func Specificity(ots []offtarget.OffTarget, pamQuality float64) float64 {
	if len(ots) == 0 {
		return 1.0
	}
	countPen := math.Min(countPenaltyCap, float64(len(ots))*countPenaltyPer)
	sevPen := 0.0
	for _, ot := range ots {
		sevPen += severityPenalty[ot.Severity]
	}
	sevPen = math.Min(severityCap, sevPen)
	s := 1.0 - countPen - sevPen + (pamQuality-0.5)*pamBonusScale
	return math.Max(0, math.Min(1, s))
}
