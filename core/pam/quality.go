package pam

import "strings"

var qualityTable = map[string]float64{
	"NGG": 1.0, "AGG": 1.0, "CGG": 1.0, "TGG": 1.0, "GGG": 1.0,
	"NNGRRT": 0.9, "NNGAAT": 0.9, "NNGAGT": 0.9, "NNGRAT": 0.9, "NNGART": 0.9,
	"TTTA": 0.85, "TTTC": 0.85, "TTTG": 0.85,
	"GAA": 0.8, "GAT": 0.8,
	"NAG": 0.3, "AAG": 0.3, "CAG": 0.3, "TAG": 0.3, "GAG": 0.3,
	"NGA": 0.2, "AGA": 0.2, "CGA": 0.2, "TGA": 0.2, "GGA": 0.2,
}

// Quality scores how efficiently a nuclease engages pam. Exact table
// entries win; PAMs of three or more bases then fall back on their last
// two bases (GG, AG, GA). Everything else scores 0.1.
func Quality(pam string) float64 {
	p := strings.ToUpper(pam)
	if q, ok := qualityTable[p]; ok {
		return q
	}
	if len(p) >= 3 {
		switch {
		case strings.HasSuffix(p, "GG"):
			return 1.0
		case strings.HasSuffix(p, "AG"):
			return 0.3
		case strings.HasSuffix(p, "GA"):
			return 0.2
		}
	}
	return 0.1
}
