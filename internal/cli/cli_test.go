package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ksites/internal/appshell"
	"ksites/internal/writers"
	"ksites/pkg/api"
)

func synthGene(n int, seed uint32) string {
	var b strings.Builder
	x := seed
	for i := 0; i < n; i++ {
		x = x*1103515245 + 12345
		b.WriteByte("ACGT"[(x>>16)&3])
	}
	return b.String()
}

// writeGenes writes a two-gene FASTA and returns its path.
func writeGenes(t *testing.T) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "genes.fa")
	fa := ">NM_0001 gene=GENEA\n" + synthGene(900, 7) + "\n>NM_0002 gene=GENEB\n" + synthGene(1200, 11) + "\n"
	if err := os.WriteFile(fn, []byte(fa), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return fn
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = Run(context.Background(), args, &out, &errb)
	return code, out.String(), errb.String()
}

func localArgs(t *testing.T, extra ...string) []string {
	return append([]string{"--provider", "local", "--fasta", writeGenes(t), "--min-on-target", "0", "-q"}, extra...)
}

func decodeDesigns(t *testing.T, s string) []api.DesignV1 {
	t.Helper()
	var ds []api.DesignV1
	if err := json.Unmarshal([]byte(s), &ds); err != nil {
		t.Fatalf("decode json: %v\n%s", err, s)
	}
	return ds
}

func TestDesignLocal(t *testing.T) {
	code, out, errs := run(t, append([]string{"design", "GENEA"}, localArgs(t, "--top-n", "5")...)...)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errs)
	}
	ds := decodeDesigns(t, out)
	if len(ds) != 1 {
		t.Fatalf("got %d designs, want 1", len(ds))
	}
	d := ds[0]
	if d.Kind != "scored" || d.Gene != "GENEA" || d.CasType != "SpCas9" || d.Organism != "9606" {
		t.Fatalf("design header = %+v", d)
	}
	if len(d.Guides) == 0 || len(d.Guides) > 5 {
		t.Fatalf("got %d guides, want 1..5", len(d.Guides))
	}
	if d.RunID == "" {
		t.Fatal("missing run id")
	}
	for _, g := range d.Guides {
		if len(g.Seq) != 20 || g.Placeholder {
			t.Fatalf("bad guide %+v", g)
		}
	}
}

func TestDesignFallbackUnknownGene(t *testing.T) {
	code, out, errs := run(t, append([]string{"design", "NOPE"}, localArgs(t)...)...)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errs)
	}
	ds := decodeDesigns(t, out)
	if ds[0].Kind != "fallback" || !strings.Contains(ds[0].Reason, "not found") {
		t.Fatalf("design = %+v", ds[0])
	}
	if !ds[0].Guides[0].Placeholder {
		t.Fatal("fallback guides must be placeholders")
	}
}

func TestDesignTSV(t *testing.T) {
	code, out, errs := run(t, append([]string{"design", "GENEB", "--format", "tsv"}, localArgs(t)...)...)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errs)
	}
	if !strings.HasPrefix(out, writers.TSVHeader+"\n") {
		t.Fatalf("missing header:\n%s", out)
	}
}

func TestMulti(t *testing.T) {
	code, out, errs := run(t, append([]string{"multi", "GENEA", "--cas-types", "SpCas9,SaCas9", "--format", "jsonl"}, localArgs(t)...)...)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errs)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var second api.DesignV1
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if second.CasType != "SaCas9" {
		t.Fatalf("second cas = %q", second.CasType)
	}
}

func TestBatchOrderAndFallback(t *testing.T) {
	list := filepath.Join(t.TempDir(), "genes.txt")
	if err := os.WriteFile(list, []byte("# panel\nGENEB\nMISSING\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errs := run(t, append([]string{"batch", "GENEA", "--genes-file", list, "--workers", "3"}, localArgs(t)...)...)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errs)
	}
	ds := decodeDesigns(t, out)
	var got []string
	for _, d := range ds {
		got = append(got, d.Gene+":"+d.Kind)
	}
	if want := "GENEA:scored,GENEB:scored,MISSING:fallback"; strings.Join(got, ",") != want {
		t.Fatalf("batch = %v, want %s", got, want)
	}
}

func TestRecordAndRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ksites.db")
	code, _, errs := run(t, append([]string{"design", "GENEA", "--db", db, "--record"}, localArgs(t)...)...)
	if code != 0 {
		t.Fatalf("design exit %d, stderr:\n%s", code, errs)
	}
	code, out, errs := run(t, "runs", "--db", db)
	if code != 0 {
		t.Fatalf("runs exit %d, stderr:\n%s", code, errs)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "GENEA") || !strings.Contains(lines[1], "scored") {
		t.Fatalf("runs output:\n%s", out)
	}
}

func TestPathwayImportNeighbors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ksites.db")
	tsv := filepath.Join(dir, "pathways.tsv")
	if err := os.WriteFile(tsv, []byte("p53 TP53 MDM2 CDKN1A\napoptosis TP53 BAX\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errs := run(t, "pathway", "import", tsv, "--db", db, "-q")
	if code != 0 || !strings.Contains(out, "added 5") {
		t.Fatalf("import exit %d out=%q stderr:\n%s", code, out, errs)
	}
	code, out, _ = run(t, "pathway", "neighbors", "tp53", "--db", db)
	if code != 0 || out != "BAX\nCDKN1A\nMDM2\n" {
		t.Fatalf("neighbors exit %d out=%q", code, out)
	}
	code, out, _ = run(t, "pathway", "neighbors", "TP53", "--db", db, "--organism", "10090")
	if code != 0 || out != "" {
		t.Fatalf("other organism: exit %d out=%q", code, out)
	}
}

func TestScoreAndPams(t *testing.T) {
	code, out, errs := run(t, "score", "GACGTACGTAGCTAGCTAGC", "agg")
	if code != 0 {
		t.Fatalf("score exit %d, stderr:\n%s", code, errs)
	}
	for _, want := range []string{"on_target", "pam_quality  1.00", "gc_content"} {
		if !strings.Contains(out, want) {
			t.Fatalf("score output missing %q:\n%s", want, out)
		}
	}
	code, out, _ = run(t, "pams")
	if code != 0 {
		t.Fatalf("pams exit %d", code)
	}
	for _, cas := range []string{"SpCas9", "SaCas9", "Cas12a", "Cas9-NG", "xCas9"} {
		if !strings.Contains(out, cas) {
			t.Fatalf("pams output missing %s:\n%s", cas, out)
		}
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing arg", []string{"design"}, appshell.ExitUsage},
		{"unknown command", []string{"frobnicate"}, appshell.ExitUsage},
		{"unknown flag", []string{"pams", "--nope"}, appshell.ExitUsage},
		{"bad spacer", []string{"score", "ACGTX", "NGG"}, appshell.ExitUsage},
		{"unknown cas", []string{"design", "TP53", "--cas", "Cas13"}, appshell.ExitUsage},
		{"local without fasta", []string{"design", "TP53", "--provider", "local"}, appshell.ExitUsage},
		{"bad format", append([]string{"design", "GENEA", "--format", "xml"}, localArgs(t)...), appshell.ExitUsage},
		{"missing reference", append([]string{"design", "GENEA", "--offtarget-source", "reference", "--reference", "/nonexistent.fa"}, localArgs(t)...), appshell.ExitRuntime},
		{"version", []string{"version"}, appshell.ExitOK},
	}
	for _, tt := range tests {
		if code, _, errs := run(t, tt.args...); code != tt.want {
			t.Errorf("%s: exit %d, want %d (stderr %q)", tt.name, code, tt.want, errs)
		}
	}
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	code := Run(ctx, append([]string{"design", "GENEA"}, localArgs(t)...), &out, &errb)
	if code != appshell.ExitCancelled {
		t.Fatalf("exit %d, want %d (stderr %q)", code, appshell.ExitCancelled, errb.String())
	}
}

func TestReferenceOffTargets(t *testing.T) {
	ref := filepath.Join(t.TempDir(), "ref.fa")
	if err := os.WriteFile(ref, []byte(">chrT\n"+synthGene(5000, 3)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errs := run(t, append([]string{"design", "GENEA", "--offtarget-source", "reference", "--reference", ref, "--hit-cap", "10"}, localArgs(t)...)...)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, errs)
	}
	if d := decodeDesigns(t, out)[0]; d.Kind != "scored" {
		t.Fatalf("kind = %s (%s)", d.Kind, d.Reason)
	}
}
