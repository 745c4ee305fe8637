// Package pam holds the Cas nuclease catalog and the PAM-level operations:
// site scanning, spacer extraction and PAM quality.
package pam

import (
	"errors"
	"fmt"
	"strings"

	"ksites-core/seq"
)

// CasType names a supported nuclease.
type CasType string

const (
	SpCas9 CasType = "SpCas9"
	SaCas9 CasType = "SaCas9"
	Cas12a CasType = "Cas12a"
	Cas9NG CasType = "Cas9-NG"
	XCas9  CasType = "xCas9"
)

// Position says on which side of the protospacer the PAM sits,
// read on the protospacer strand.
type Position string

const (
	Prime3 Position = "3prime"
	Prime5 Position = "5prime"
)

// Strand of a site relative to the scanned sequence.
type Strand string

const (
	Forward Strand = "+"
	Reverse Strand = "-"
)

var ErrUnknownCas = errors.New("unknown Cas type")

// Config describes one nuclease. Forward holds IUPAC alternatives tried
// in order; Reverse holds their reverse complements in the same order.
type Config struct {
	Cas       CasType
	Forward   []string
	Reverse   []string
	Quality   float64
	SpacerLen int
	PAMLength int
	Position  Position
}

var order = []CasType{SpCas9, SaCas9, Cas12a, Cas9NG, XCas9}

var catalog = map[CasType]Config{
	SpCas9: newConfig(SpCas9, 1.0, 20, 3, Prime3, "NGG"),
	SaCas9: newConfig(SaCas9, 0.9, 21, 6, Prime3, "NNGRRT"),
	Cas12a: newConfig(Cas12a, 0.85, 23, 4, Prime5, "TTTV"),
	Cas9NG: newConfig(Cas9NG, 0.7, 20, 2, Prime3, "NG"),
	XCas9:  newConfig(XCas9, 0.8, 20, 3, Prime3, "NG", "GAW"),
}

func newConfig(c CasType, q float64, spacer, pamLen int, pos Position, fwd ...string) Config {
	rev := make([]string, len(fwd))
	for i, p := range fwd {
		rev[i] = seq.RevCompString(p)
	}
	return Config{
		Cas:       c,
		Forward:   fwd,
		Reverse:   rev,
		Quality:   q,
		SpacerLen: spacer,
		PAMLength: pamLen,
		Position:  pos,
	}
}

// All returns every supported Cas type in catalog order.
func All() []CasType {
	return append([]CasType(nil), order...)
}

// Lookup returns the catalog entry for c.
func Lookup(c CasType) (Config, error) {
	cfg, ok := catalog[c]
	if !ok {
		return Config{}, fmt.Errorf("%w %q (supported: %s)", ErrUnknownCas, c, supported())
	}
	cfg.Forward = append([]string(nil), cfg.Forward...)
	cfg.Reverse = append([]string(nil), cfg.Reverse...)
	return cfg, nil
}

// ParseCasType resolves a user-supplied name, ignoring case.
func ParseCasType(s string) (CasType, error) {
	s = strings.TrimSpace(s)
	for _, c := range order {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownCas, s, supported())
}

func supported() string {
	names := make([]string, len(order))
	for i, c := range order {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
