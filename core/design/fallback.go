package design

import (
	"fmt"

	"ksites-core/pam"
	"ksites-core/score"
)

const (
	fallbackCount          = 3
	fallbackRecommendation = "Sequence data unavailable - validate experimentally"
)

// FallbackGuides returns labeled placeholders for a gene whose sequence
// could not be designed against. They are never real spacers.
func FallbackGuides(gene string, cas pam.CasType) []Guide {
	out := make([]Guide, fallbackCount)
	for i := range out {
		f := float64(i)
		out[i] = Guide{
			Spacer:         fmt.Sprintf("PLACEHOLDER_GUIDE_%d_FOR_%s", i+1, gene),
			PAM:            "NGG",
			Position:       i * 100,
			Strand:         pam.Forward,
			Cas:            cas,
			OnTarget:       0.7 - f*0.1,
			Specificity:    0.8 - f*0.1,
			OffTargetCount: i + 1,
			GCContent:      0.55,
			MaxRepeat:      2,
			PAMQuality:     1.0,
			ExonNumber:     i + 1,
			ExonPosition:   "early",
			CDSFrame:       0,
			Severity:       score.Medium,
			Recommendation: fallbackRecommendation,
			Placeholder:    true,
		}
	}
	return out
}
