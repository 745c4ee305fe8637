package risk

import (
	"ksites-core/offtarget"
	"ksites-core/score"
)

var recommendations = map[score.Severity]string{
	score.Critical: "DO NOT USE without extensive validation. Consider CRISPRi, base editing, or alternative target sites. High risk of pathway disruption and off-target effects.",
	score.High:     "Use with caution. Recommend comprehensive off-target validation including GUIDE-seq or CIRCLE-seq. Consider heterozygous approach.",
	score.Medium:   "Acceptable for most applications. Include standard off-target analysis (T7E1, targeted sequencing) in experimental design.",
	score.Low:      "Safe for use. Minimal off-target concerns. Standard validation recommended.",
	score.Unknown:  "Manual review required. Insufficient data for assessment.",
}

// Recommendation returns the fixed guidance text for sev.
func Recommendation(sev score.Severity) string {
	if r, ok := recommendations[sev]; ok {
		return r
	}
	return recommendations[score.Unknown]
}

// Classify grades a guide. Rules are checked in order and the first
// match wins.
func Classify(onTarget float64, offTargetCount int, pathwayConflict bool, ots []offtarget.OffTarget) (score.Severity, string) {
	var crit, high int
	for _, ot := range ots {
		switch ot.Severity {
		case score.Critical:
			crit++
		case score.High:
			high++
		}
	}

	var sev score.Severity
	switch {
	case pathwayConflict && crit > 0:
		sev = score.Critical
	case crit > 2 || (high > 3 && onTarget > 0.7):
		sev = score.Critical
	case pathwayConflict || crit > 0 || high > 2:
		sev = score.High
	case offTargetCount > 5 || high > 0:
		sev = score.Medium
	default:
		sev = score.Low
	}
	return sev, Recommendation(sev)
}
