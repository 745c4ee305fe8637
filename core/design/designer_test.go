package design

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"ksites-core/offtarget"
	"ksites-core/pam"
	"ksites-core/score"
	"ksites-core/seq"
)

// synthGene returns a deterministic pseudo-random ACGT sequence.
func synthGene(n int, seed uint32) string {
	var b strings.Builder
	x := seed
	for i := 0; i < n; i++ {
		x = x*1103515245 + 12345
		b.WriteByte("ACGT"[(x>>16)&3])
	}
	return b.String()
}

type stubGenes struct {
	info GeneInfo
	err  error
	hits int
}

func (s *stubGenes) FetchGene(_ context.Context, symbol, _ string) (GeneInfo, error) {
	s.hits++
	if s.err != nil {
		return GeneInfo{}, s.err
	}
	info := s.info
	info.Symbol = symbol
	return info, nil
}

type stubPathways struct {
	neighbors map[string]bool
	err       error
}

func (s stubPathways) CheckConflicts(_ context.Context, genes []string, _, _ string) (bool, []string, error) {
	if s.err != nil {
		return false, nil, s.err
	}
	var out []string
	for _, g := range genes {
		if s.neighbors[strings.ToUpper(g)] {
			out = append(out, g)
		}
	}
	return len(out) > 0, out, nil
}

type panicSource struct{}

func (panicSource) Candidates(string, int, int) []offtarget.Candidate { panic("boom") }

func geneProvider() *stubGenes {
	return &stubGenes{info: GeneInfo{GeneID: "7157", Sequence: synthGene(900, 7), CDSStart: 150}}
}

func TestDesign_FallbackOnFetchError(t *testing.T) {
	d := New(&stubGenes{err: errors.New("network down")})
	res, err := d.Design(context.Background(), "TP53", "9606", DefaultOptions())
	if err != nil {
		t.Fatalf("Design: %v", err)
	}
	if !res.IsFallback() || len(res.Guides) != 3 || !strings.Contains(res.Reason, "network down") {
		t.Fatalf("result = %+v", res)
	}
	if res.Guides[0].Spacer != "PLACEHOLDER_GUIDE_1_FOR_TP53" {
		t.Fatalf("spacer = %q", res.Guides[0].Spacer)
	}
}

func TestDesign_FallbackWithoutProvider(t *testing.T) {
	res, err := New(nil).Design(context.Background(), "TP53", "9606", DefaultOptions())
	if err != nil || !res.IsFallback() {
		t.Fatalf("result = %+v, err = %v", res, err)
	}
}

func TestDesign_FallbackOnShortSequence(t *testing.T) {
	g := &stubGenes{info: GeneInfo{Sequence: synthGene(29, 1)}}
	res, err := New(g).Design(context.Background(), "X", "9606", DefaultOptions())
	if err != nil || !res.IsFallback() {
		t.Fatalf("29 nt should fall back; result = %+v, err = %v", res, err)
	}
}

func TestDesign_InvalidOptions(t *testing.T) {
	d := New(geneProvider())
	o := DefaultOptions()
	o.Cas = "Cas13"
	if _, err := d.Design(context.Background(), "X", "9606", o); !errors.Is(err, pam.ErrUnknownCas) {
		t.Fatalf("err = %v, want ErrUnknownCas", err)
	}
	o = DefaultOptions()
	o.GCMin, o.GCMax = 0.8, 0.2
	if _, err := d.Design(context.Background(), "X", "9606", o); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
	o = DefaultOptions()
	o.TargetExons = []int{0}
	if _, err := d.Design(context.Background(), "X", "9606", o); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
}

func TestDesign_Invariants(t *testing.T) {
	for _, cas := range pam.All() {
		o := DefaultOptions()
		o.Cas = cas
		o.MinOnTarget = 0
		res, err := New(geneProvider()).Design(context.Background(), "TP53", "9606", o)
		if err != nil {
			t.Fatalf("%s: %v", cas, err)
		}
		if res.Kind != KindScored {
			t.Fatalf("%s: kind = %s (%s)", cas, res.Kind, res.Reason)
		}
		cfg, _ := pam.Lookup(cas)
		if len(res.Guides) > o.TopN {
			t.Fatalf("%s: %d guides exceeds top-n", cas, len(res.Guides))
		}
		for i, g := range res.Guides {
			if len(g.Spacer) != cfg.SpacerLen || g.Cas != cas || g.Placeholder {
				t.Fatalf("%s[%d]: bad guide %+v", cas, i, g)
			}
			if g.GCContent < o.GCMin || g.GCContent > o.GCMax || seq.HasPolyT(g.Spacer, 4) || g.MaxRepeat > o.MaxRepeats {
				t.Fatalf("%s[%d]: filter not honored: %+v", cas, i, g)
			}
			for _, v := range []float64{g.OnTarget, g.Specificity, g.GCContent, g.PAMQuality} {
				if v < 0 || v > 1 {
					t.Fatalf("%s[%d]: score out of range: %+v", cas, i, g)
				}
			}
			if g.OffTargetCount != len(g.OffTargets) {
				t.Fatalf("%s[%d]: count %d != %d details", cas, i, g.OffTargetCount, len(g.OffTargets))
			}
			for _, ot := range g.OffTargets {
				for k := 1; k < len(ot.MismatchPositions); k++ {
					if ot.MismatchPositions[k] <= ot.MismatchPositions[k-1] {
						t.Fatalf("%s[%d]: positions not unique ascending %v", cas, i, ot.MismatchPositions)
					}
				}
			}
			if !g.Severity.Valid() || g.Recommendation == "" {
				t.Fatalf("%s[%d]: severity %q", cas, i, g.Severity)
			}
			if i > 0 && g.Composite() > res.Guides[i-1].Composite() {
				t.Fatalf("%s: guides not ranked at %d", cas, i)
			}
		}
	}
}

func TestDesign_ProducesGuides(t *testing.T) {
	res, err := New(geneProvider()).Design(context.Background(), "TP53", "9606", DefaultOptions())
	if err != nil {
		t.Fatalf("Design: %v", err)
	}
	if len(res.Guides) == 0 {
		t.Fatal("expected SpCas9 guides from a 900 nt random sequence")
	}
	for _, g := range res.Guides {
		if g.OnTarget < 0.3 {
			t.Fatalf("min on-target not honored: %v", g.OnTarget)
		}
		if g.ExonNumber != 1 || g.ExonPosition != "" {
			t.Fatalf("whole-sequence scan should report exon 1 without a position: %+v", g)
		}
		if want := CDSFrame(g.Position, 150); g.CDSFrame != want {
			t.Fatalf("frame = %d, want %d", g.CDSFrame, want)
		}
	}
}

func TestDesign_Deterministic(t *testing.T) {
	a, _ := New(geneProvider()).Design(context.Background(), "TP53", "9606", DefaultOptions())
	b, _ := New(geneProvider()).Design(context.Background(), "TP53", "9606", DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different results")
	}
}

func TestDesign_ExonWindows(t *testing.T) {
	g := geneProvider()
	g.info.Exons = []Exon{{0, 300, 1}, {300, 600, 2}, {600, 900, 3}}
	o := DefaultOptions()
	o.TargetExons = []int{2}
	res, err := New(g).Design(context.Background(), "TP53", "9606", o)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}
	for _, gd := range res.Guides {
		if gd.ExonNumber != 2 || gd.Position < 300 || gd.Position >= 600 || gd.ExonPosition == "" {
			t.Fatalf("guide outside exon 2: %+v", gd)
		}
	}
}

func TestDesign_NoOffTargetDetails(t *testing.T) {
	o := DefaultOptions()
	o.IncludeOffTargets = false
	res, _ := New(geneProvider()).Design(context.Background(), "TP53", "9606", o)
	for _, g := range res.Guides {
		if g.OffTargets != nil {
			t.Fatal("details must be omitted")
		}
		if g.OffTargetCount == 0 {
			t.Fatal("count is still reported without details")
		}
	}
}

func TestDesign_PathwayConflict(t *testing.T) {
	// The heuristic source annotates its first candidate with GENE0.
	pc := stubPathways{neighbors: map[string]bool{"GENE0": true}}
	res, err := New(geneProvider(), WithPathwayChecker(pc)).Design(context.Background(), "TP53", "9606", DefaultOptions())
	if err != nil || len(res.Guides) == 0 {
		t.Fatalf("Design: %v (%d guides)", err, len(res.Guides))
	}
	for _, g := range res.Guides {
		if !g.PathwayConflict || !reflect.DeepEqual(g.ConflictGenes, []string{"GENE0"}) {
			t.Fatalf("conflict not reported: %+v", g)
		}
		if g.Severity.Rank() < score.High.Rank() {
			t.Fatalf("conflicting guide graded %s", g.Severity)
		}
	}

	res, _ = New(geneProvider(), WithPathwayChecker(stubPathways{err: errors.New("db locked")})).
		Design(context.Background(), "TP53", "9606", DefaultOptions())
	for _, g := range res.Guides {
		if g.PathwayConflict {
			t.Fatal("checker errors must not mark conflicts")
		}
	}
}

func TestDesign_PanicFallsBack(t *testing.T) {
	d := New(geneProvider(), WithOffTargetSource(func(pam.Config) offtarget.Source { return panicSource{} }))
	res, err := d.Design(context.Background(), "TP53", "9606", DefaultOptions())
	if err != nil {
		t.Fatalf("Design: %v", err)
	}
	if !res.IsFallback() || !strings.Contains(res.Reason, "boom") {
		t.Fatalf("result = %+v", res)
	}
}

func TestDesign_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(geneProvider()).Design(ctx, "TP53", "9606", DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDesignMulti(t *testing.T) {
	g := geneProvider()
	out, err := New(g).DesignMulti(context.Background(), "TP53", "9606", nil, DefaultOptions())
	if err != nil {
		t.Fatalf("DesignMulti: %v", err)
	}
	if len(out) != len(pam.All()) {
		t.Fatalf("got %d results", len(out))
	}
	for i, c := range pam.All() {
		if out[i].Cas != c || out[i].Result.Kind != KindScored {
			t.Fatalf("[%d] = %s/%s", i, out[i].Cas, out[i].Result.Kind)
		}
		for _, gd := range out[i].Result.Guides {
			if gd.Cas != c {
				t.Fatalf("[%d] guide cas = %s", i, gd.Cas)
			}
		}
	}
	if g.hits != 1 {
		t.Fatalf("gene fetched %d times, want 1", g.hits)
	}

	if _, err := New(g).DesignMulti(context.Background(), "TP53", "9606", []pam.CasType{pam.SpCas9, "Cas13"}, DefaultOptions()); !errors.Is(err, pam.ErrUnknownCas) {
		t.Fatalf("err = %v, want ErrUnknownCas", err)
	}

	out, err = New(&stubGenes{err: errors.New("offline")}).DesignMulti(context.Background(), "TP53", "9606", []pam.CasType{pam.Cas12a}, DefaultOptions())
	if err != nil || len(out) != 1 || !out[0].Result.IsFallback() || out[0].Result.Guides[0].Cas != pam.Cas12a {
		t.Fatalf("fallback multi = %+v, %v", out, err)
	}
}
