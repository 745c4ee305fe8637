package design

import (
	"errors"
	"fmt"

	"ksites-core/offtarget"
	"ksites-core/pam"
)

var ErrInvalidOptions = errors.New("invalid design options")

// DefaultTopN is how many ranked guides a design returns.
const DefaultTopN = 20

type Options struct {
	Cas         pam.CasType
	TargetExons []int

	GCMin, GCMax, GCOptimal float64
	AvoidPolyT              bool
	MaxRepeats              int
	MinOnTarget             float64

	MaxOffTargets     int
	MaxMismatches     int
	IncludeOffTargets bool

	TopN int
}

func DefaultOptions() Options {
	return Options{
		Cas:               pam.SpCas9,
		GCMin:             0.40,
		GCMax:             0.70,
		GCOptimal:         0.55,
		AvoidPolyT:        true,
		MaxRepeats:        4,
		MinOnTarget:       0.3,
		MaxOffTargets:     offtarget.DefaultMaxResults,
		MaxMismatches:     offtarget.DefaultMaxMismatches,
		IncludeOffTargets: true,
		TopN:              DefaultTopN,
	}
}

// Validate checks o and returns the nuclease config it selects.
func (o Options) Validate() (pam.Config, error) {
	cfg, err := pam.Lookup(o.Cas)
	if err != nil {
		return pam.Config{}, err
	}
	bad := func(format string, a ...any) (pam.Config, error) {
		return pam.Config{}, fmt.Errorf("%w: "+format, append([]any{ErrInvalidOptions}, a...)...)
	}
	switch {
	case o.GCMin < 0 || o.GCMax > 1 || o.GCMin > o.GCMax:
		return bad("GC range [%g, %g] must satisfy 0 ≤ min ≤ max ≤ 1", o.GCMin, o.GCMax)
	case o.GCOptimal < 0 || o.GCOptimal > 1:
		return bad("optimal GC %g outside [0,1]", o.GCOptimal)
	case o.MaxRepeats < 1:
		return bad("max repeats must be ≥ 1")
	case o.MinOnTarget < 0 || o.MinOnTarget > 1:
		return bad("minimum on-target score %g outside [0,1]", o.MinOnTarget)
	case o.MaxOffTargets < 0:
		return bad("max off-targets must be ≥ 0")
	case o.MaxMismatches < 0:
		return bad("max mismatches must be ≥ 0")
	case o.TopN < 1:
		return bad("top-n must be ≥ 1")
	}
	for _, n := range o.TargetExons {
		if n < 1 {
			return bad("exon numbers start at 1 (got %d)", n)
		}
	}
	return cfg, nil
}
