// Package design runs the guide design pipeline for one gene: fetch,
// PAM scan, spacer extraction, filtering, scoring, off-target
// assessment, classification and ranking.
package design

import (
	"context"

	"ksites-core/offtarget"
	"ksites-core/pam"
	"ksites-core/score"
)

// Exon is a half-open interval [Start, End) on the gene sequence.
type Exon struct {
	Start, End int
	Number     int
}

// GeneInfo is what a GeneProvider returns for a symbol.
type GeneInfo struct {
	GeneID   string
	Symbol   string
	Sequence string
	Exons    []Exon
	CDSStart int
	CDSEnd   int
}

// GeneProvider resolves a gene symbol within an organism.
type GeneProvider interface {
	FetchGene(ctx context.Context, symbol, organism string) (GeneInfo, error)
}

// PathwayChecker reports which of the candidate genes share a pathway
// with the target gene.
type PathwayChecker interface {
	CheckConflicts(ctx context.Context, genes []string, target, organism string) (bool, []string, error)
}

// Guide is one designed (or placeholder) guide RNA.
type Guide struct {
	Spacer          string
	PAM             string
	Position        int
	Strand          pam.Strand
	Cas             pam.CasType
	OnTarget        float64
	Specificity     float64
	OffTargetCount  int
	GCContent       float64
	PolyT           bool
	MaxRepeat       int
	PAMQuality      float64
	ExonNumber      int    // 0 when unknown
	ExonPosition    string // early, middle, late or ""
	CDSFrame        int    // -1 before the CDS
	PathwayConflict bool
	ConflictGenes   []string
	OffTargets      []offtarget.OffTarget
	Severity        score.Severity
	Recommendation  string
	Placeholder     bool
}

// Composite is the ranking key.
func (g Guide) Composite() float64 { return g.OnTarget * g.Specificity }

type ResultKind string

const (
	KindScored   ResultKind = "scored"
	KindFallback ResultKind = "fallback"
)

// Result is either a scored guide list (possibly empty) or a set of
// placeholder guides with the reason real design was not possible.
type Result struct {
	Kind   ResultKind
	Reason string
	Guides []Guide
}

func (r Result) IsFallback() bool { return r.Kind == KindFallback }

// MultiResult pairs a Cas type with its design result.
type MultiResult struct {
	Cas    pam.CasType
	Result Result
}
