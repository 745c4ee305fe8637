package score

// PositionPenalty is the activity lost to a mismatch at a 1-based spacer
// position. The PAM-proximal seed (17-20) is the least tolerant.
// Positions outside 1-20 carry no penalty.
func PositionPenalty(pos int) float64 {
	switch {
	case pos >= 17 && pos <= 20:
		return 0.9
	case pos >= 13 && pos <= 16:
		return 0.6
	case pos >= 8 && pos <= 12:
		return 0.4
	case pos >= 1 && pos <= 7:
		return 0.2
	}
	return 0
}

// CFD multiplies the retained activity over all mismatch positions.
// The result is in [0,1]; no mismatches gives 1.
func CFD(positions []int) float64 {
	s := 1.0
	for _, p := range positions {
		s *= 1 - PositionPenalty(p)
	}
	if s < 0 {
		return 0
	}
	return s
}
