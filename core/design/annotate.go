package design

// ExonPosition places pos in the first, middle or last third of exon
// number n. It returns "" when n is 0 or no exons are known.
func ExonPosition(pos int, exons []Exon, n int) string {
	if n == 0 || len(exons) == 0 {
		return ""
	}
	for _, e := range exons {
		if e.Number != n {
			continue
		}
		rel := 0.5
		if l := e.End - e.Start; l > 0 {
			rel = float64(pos-e.Start) / float64(l)
		}
		switch {
		case rel < 0.33:
			return "early"
		case rel < 0.67:
			return "middle"
		default:
			return "late"
		}
	}
	return ""
}

// CDSFrame is the reading frame (0-2) of pos relative to cdsStart, or -1
// when pos lies upstream of the CDS.
func CDSFrame(pos, cdsStart int) int {
	if pos < cdsStart {
		return -1
	}
	return (pos - cdsStart) % 3
}
