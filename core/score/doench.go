package score

import (
	"math"
	"strings"

	"ksites-core/pam"
	"ksites-core/seq"
)

type weight struct{ a, c, g float64 } // T contributes 0

// Position-specific nucleotide weights for spacer positions 1-20.
var doenchWeights = [20]weight{
	{-0.097377, -0.083064, 0.031048},
	{-0.094838, -0.088376, 0.040169},
	{-0.070963, -0.073336, 0.035386},
	{-0.043544, -0.063537, 0.032820},
	{-0.031856, -0.057013, 0.028734},
	{-0.027794, -0.046586, 0.022672},
	{-0.009889, -0.041686, 0.028188},
	{0.007820, -0.037756, 0.021966},
	{0.026284, -0.031596, 0.023655},
	{0.023931, -0.029133, 0.021836},
	{0.036131, -0.030821, 0.021483},
	{0.041276, -0.028376, 0.027026},
	{0.037258, -0.025805, 0.030194},
	{0.030462, -0.023042, 0.029692},
	{0.024869, -0.019596, 0.031562},
	{0.019399, -0.016958, 0.024683},
	{0.012968, -0.010496, 0.018628},
	{0.012568, -0.007596, 0.012902},
	{0.006800, -0.003890, 0.005375},
	{0.003281, -0.001329, -0.025902},
}

const (
	onTargetBase   = 0.5
	gcPenaltyScale = 0.5
	selfCompWindow = 8
	selfCompMinLen = 16
	selfCompScale  = 0.25
	pamNudgeScale  = 0.1
)

// OnTarget estimates cutting efficiency of spacer with the given PAM.
// The result is clamped to [0,1]; an empty spacer scores 0.
func OnTarget(spacer, pamSeq string, gcOptimal float64) float64 {
	if spacer == "" {
		return 0
	}
	s := strings.ToUpper(spacer)

	score := onTargetBase
	for i := 0; i < len(s) && i < len(doenchWeights); i++ {
		w := doenchWeights[i]
		switch s[i] {
		case 'A':
			score += w.a
		case 'C':
			score += w.c
		case 'G':
			score += w.g
		}
	}
	score -= math.Abs(seq.GCContent(s)-gcOptimal) * gcPenaltyScale
	score -= selfComplementarity(s)
	score += (pam.Quality(pamSeq) - 0.5) * pamNudgeScale
	return clamp01(score)
}

// selfComplementarity compares the reverse complement of the first
// window against the last window position by position.
func selfComplementarity(s string) float64 {
	if len(s) < selfCompMinLen {
		return 0
	}
	head := seq.RevCompString(s[:selfCompWindow])
	tail := s[len(s)-selfCompWindow:]
	matches := 0
	for i := 0; i < selfCompWindow; i++ {
		if head[i] == tail[i] {
			matches++
		}
	}
	return float64(matches) / selfCompWindow * selfCompScale
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
