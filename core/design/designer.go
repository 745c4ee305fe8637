package design

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"ksites-core/offtarget"
	"ksites-core/pam"
	"ksites-core/risk"
	"ksites-core/score"
	"ksites-core/seq"
)

// minFlank is the sequence length beyond one spacer required to design.
const minFlank = 10

type Designer struct {
	genes    GeneProvider
	pathways PathwayChecker
	sources  func(pam.Config) offtarget.Source
	log      *slog.Logger
}

type Option func(*Designer)

// WithPathwayChecker enables pathway-conflict checks.
func WithPathwayChecker(pc PathwayChecker) Option {
	return func(d *Designer) { d.pathways = pc }
}

// WithOffTargetSource replaces the heuristic off-target estimator.
func WithOffTargetSource(fn func(pam.Config) offtarget.Source) Option {
	return func(d *Designer) { d.sources = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Designer) { d.log = l }
}

// New builds a Designer. genes may be nil, in which case every design
// falls back to placeholders.
func New(genes GeneProvider, opts ...Option) *Designer {
	d := &Designer{
		genes:   genes,
		sources: func(pam.Config) offtarget.Source { return offtarget.Heuristic{} },
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Design fetches gene and designs guides for it. Invalid options are the
// only error besides context cancellation; upstream failures produce a
// fallback Result.
func (d *Designer) Design(ctx context.Context, gene, organism string, o Options) (Result, error) {
	cfg, err := o.Validate()
	if err != nil {
		return Result{}, err
	}
	info, reason := d.fetch(ctx, gene, organism)
	if reason != "" {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return d.fallback(gene, o.Cas, reason), nil
	}
	return d.designGene(ctx, info, organism, cfg, o)
}

// DesignGene designs against an already resolved gene.
func (d *Designer) DesignGene(ctx context.Context, info GeneInfo, organism string, o Options) (Result, error) {
	cfg, err := o.Validate()
	if err != nil {
		return Result{}, err
	}
	return d.designGene(ctx, info, organism, cfg, o)
}

// DesignMulti designs gene once per Cas type (all types when casTypes is
// empty), fetching the gene a single time. o.Cas is ignored.
func (d *Designer) DesignMulti(ctx context.Context, gene, organism string, casTypes []pam.CasType, o Options) ([]MultiResult, error) {
	if len(casTypes) == 0 {
		casTypes = pam.All()
	}
	cfgs := make([]pam.Config, len(casTypes))
	for i, c := range casTypes {
		oc := o
		oc.Cas = c
		cfg, err := oc.Validate()
		if err != nil {
			return nil, err
		}
		cfgs[i] = cfg
	}

	info, reason := d.fetch(ctx, gene, organism)
	out := make([]MultiResult, 0, len(casTypes))
	for i, c := range casTypes {
		oc := o
		oc.Cas = c
		if reason != "" {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			out = append(out, MultiResult{Cas: c, Result: d.fallback(gene, c, reason)})
			continue
		}
		res, err := d.designGene(ctx, info, organism, cfgs[i], oc)
		if err != nil {
			return nil, err
		}
		out = append(out, MultiResult{Cas: c, Result: res})
	}
	return out, nil
}

func (d *Designer) fetch(ctx context.Context, gene, organism string) (GeneInfo, string) {
	if d.genes == nil {
		return GeneInfo{}, "no gene provider configured"
	}
	info, err := d.genes.FetchGene(ctx, gene, organism)
	if err != nil {
		d.log.Warn("gene fetch failed", "gene", gene, "organism", organism, "err", err)
		return GeneInfo{}, fmt.Sprintf("gene fetch failed: %v", err)
	}
	if info.Symbol == "" {
		info.Symbol = gene
	}
	return info, ""
}

func (d *Designer) fallback(gene string, cas pam.CasType, reason string) Result {
	d.log.Warn("using placeholder guides", "gene", gene, "cas", cas, "reason", reason)
	return Result{Kind: KindFallback, Reason: reason, Guides: FallbackGuides(gene, cas)}
}

func (d *Designer) designGene(ctx context.Context, info GeneInfo, organism string, cfg pam.Config, o Options) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("guide design failed", "gene", info.Symbol, "cas", cfg.Cas, "panic", r)
			res, err = d.fallback(info.Symbol, cfg.Cas, fmt.Sprintf("internal error: %v", r)), nil
		}
	}()

	s := []byte(strings.ToUpper(info.Sequence))
	if len(s) < cfg.SpacerLen+minFlank {
		return d.fallback(info.Symbol, cfg.Cas, fmt.Sprintf("sequence too short (%d nt)", len(s))), nil
	}

	windows := make([]pam.Window, len(info.Exons))
	for i, e := range info.Exons {
		windows[i] = pam.Window{Start: e.Start, End: e.End, Number: e.Number}
	}
	sites := pam.FindSites(s, windows, o.TargetExons, cfg)
	d.log.Debug("pam scan", "gene", info.Symbol, "cas", cfg.Cas, "sites", len(sites))

	predictor := offtarget.NewPredictor(d.sources(cfg))
	var guides []Guide
	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		g, ok := d.evaluate(ctx, s, site, info, organism, cfg, o, predictor)
		if ok {
			guides = append(guides, g)
		}
	}

	sort.SliceStable(guides, func(i, j int) bool { return guides[i].Composite() > guides[j].Composite() })
	if len(guides) > o.TopN {
		guides = guides[:o.TopN]
	}
	d.log.Info("designed guides", "gene", info.Symbol, "cas", cfg.Cas, "sites", len(sites), "guides", len(guides))
	return Result{Kind: KindScored, Guides: guides}, nil
}

// evaluate runs one site through extraction, the quality filters and
// scoring. ok is false when any filter rejects the candidate.
func (d *Designer) evaluate(ctx context.Context, s []byte, site pam.Site, info GeneInfo, organism string,
	cfg pam.Config, o Options, predictor *offtarget.Predictor) (Guide, bool) {
	spacer := pam.Extract(s, site, cfg)
	if len(spacer) != cfg.SpacerLen {
		return Guide{}, false
	}
	gc := seq.GCContent(spacer)
	polyT := o.AvoidPolyT && seq.HasPolyT(spacer, 4)
	repeat := seq.MaxRepeat(spacer)
	switch {
	case gc < o.GCMin || gc > o.GCMax:
		return Guide{}, false
	case polyT:
		return Guide{}, false
	case repeat > o.MaxRepeats:
		return Guide{}, false
	}
	on := score.OnTarget(spacer, site.PAM, o.GCOptimal)
	if on < o.MinOnTarget {
		return Guide{}, false
	}

	q := pam.Quality(site.PAM)
	ots := predictor.Predict(spacer, o.MaxMismatches, o.MaxOffTargets)
	conflict, conflictGenes := d.checkPathways(ctx, ots, info.Symbol, organism)
	sev, rec := risk.Classify(on, len(ots), conflict, ots)

	g := Guide{
		Spacer:          spacer,
		PAM:             site.PAM,
		Position:        site.Pos,
		Strand:          site.Strand,
		Cas:             cfg.Cas,
		OnTarget:        on,
		Specificity:     risk.Specificity(ots, q),
		OffTargetCount:  len(ots),
		GCContent:       gc,
		PolyT:           polyT,
		MaxRepeat:       repeat,
		PAMQuality:      q,
		ExonNumber:      site.Exon,
		ExonPosition:    ExonPosition(site.Pos, info.Exons, site.Exon),
		CDSFrame:        CDSFrame(site.Pos, info.CDSStart),
		PathwayConflict: conflict,
		ConflictGenes:   conflictGenes,
		Severity:        sev,
		Recommendation:  rec,
	}
	if o.IncludeOffTargets {
		g.OffTargets = ots
	}
	return g, true
}

func (d *Designer) checkPathways(ctx context.Context, ots []offtarget.OffTarget, target, organism string) (bool, []string) {
	if d.pathways == nil {
		return false, nil
	}
	var names []string
	for _, ot := range ots {
		if ot.GeneName != "" {
			names = append(names, ot.GeneName)
		}
	}
	if len(names) == 0 {
		return false, nil
	}
	conflict, genes, err := d.pathways.CheckConflicts(ctx, names, target, organism)
	if err != nil {
		d.log.Debug("pathway check skipped", "gene", target, "err", err)
		return false, nil
	}
	return conflict, genes
}
