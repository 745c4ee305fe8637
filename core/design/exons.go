package design

// EstimateExons splits a transcript of length n into equal exon windows
// when no real structure is known: one exon below 500 nt, otherwise
// n/500 exons bounded to [3, 8]. Any remainder after the last window is
// left unassigned.
func EstimateExons(n int) []Exon {
	if n <= 0 {
		return nil
	}
	if n < 500 {
		return []Exon{{Start: 0, End: n, Number: 1}}
	}
	k := n / 500
	if k < 3 {
		k = 3
	}
	if k > 8 {
		k = 8
	}
	size := n / k
	out := make([]Exon, k)
	for i := range out {
		end := (i + 1) * size
		if end > n {
			end = n
		}
		out[i] = Exon{Start: i * size, End: end, Number: i + 1}
	}
	return out
}
