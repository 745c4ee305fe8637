// Package localgene serves gene sequences from a local FASTA file, with an
// optional whitespace-separated exon table.
package localgene

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"ksites-core/design"
	"ksites-core/fasta"
)

var ErrGeneNotFound = errors.New("gene not found in local FASTA")

type structure struct {
	exons    []design.Exon
	cdsStart int
	cdsEnd   int
	hasCDS   bool
}

// Provider implements design.GeneProvider over in-memory records. The
// organism argument is ignored; a local FASTA is single-organism.
type Provider struct {
	bySymbol map[string]fasta.Record
	tables   map[string]*structure
}

// New indexes records by ID and by any "gene=SYMBOL" or bare token in the
// description, so both "TP53" and "NM_000546 gene=TP53" headers resolve.
func New(records []fasta.Record) *Provider {
	p := &Provider{bySymbol: map[string]fasta.Record{}, tables: map[string]*structure{}}
	for _, r := range records {
		p.index(r.ID, r)
		for _, tok := range strings.Fields(r.Description) {
			if v, ok := strings.CutPrefix(tok, "gene="); ok {
				p.index(v, r)
			}
		}
	}
	return p
}

func (p *Provider) index(key string, r fasta.Record) {
	k := strings.ToUpper(key)
	if _, dup := p.bySymbol[k]; !dup {
		p.bySymbol[k] = r
	}
}

// Open reads fastaPath and, when exonPath is non-empty, the exon table.
func Open(ctx context.Context, fastaPath, exonPath string) (*Provider, error) {
	recs, err := fasta.ReadFile(ctx, fastaPath)
	if err != nil {
		return nil, err
	}
	p := New(recs)
	if exonPath == "" {
		return p, nil
	}
	fh, err := os.Open(exonPath)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	if err := p.LoadExons(fh); err != nil {
		return nil, fmt.Errorf("%s: %w", exonPath, err)
	}
	return p, nil
}

// LoadExons reads rows of
//
//	gene number start end   # 0-based, end exclusive
//	gene cds    start [end]
//
// Blank lines and '#' comments are skipped.
func (p *Provider) LoadExons(r io.Reader) error {
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 3 || len(f) > 4 {
			return fmt.Errorf("line %d: bad field count", ln)
		}
		gene := strings.ToUpper(f[0])
		st := p.tables[gene]
		if st == nil {
			st = &structure{}
			p.tables[gene] = st
		}
		nums, err := atois(f[2:])
		if err != nil {
			return fmt.Errorf("line %d: %w", ln, err)
		}
		if strings.EqualFold(f[1], "cds") {
			st.hasCDS = true
			st.cdsStart = nums[0]
			if len(nums) == 2 {
				st.cdsEnd = nums[1]
			}
			continue
		}
		if len(nums) != 2 {
			return fmt.Errorf("line %d: exon row needs start and end", ln)
		}
		n, err := strconv.Atoi(f[1])
		if err != nil || n < 1 {
			return fmt.Errorf("line %d: bad exon number %q", ln, f[1])
		}
		if nums[0] < 0 || nums[1] <= nums[0] {
			return fmt.Errorf("line %d: bad exon span %d-%d", ln, nums[0], nums[1])
		}
		st.exons = append(st.exons, design.Exon{Start: nums[0], End: nums[1], Number: n})
	}
	if err := sc.Err(); err != nil {
		return err
	}
	for _, st := range p.tables {
		sort.Slice(st.exons, func(i, j int) bool { return st.exons[i].Number < st.exons[j].Number })
	}
	return nil
}

func atois(fs []string) ([]int, error) {
	out := make([]int, len(fs))
	for i, s := range fs {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", s)
		}
		out[i] = v
	}
	return out, nil
}

// Symbols lists indexed keys in sorted order.
func (p *Provider) Symbols() []string {
	out := make([]string, 0, len(p.bySymbol))
	for k := range p.bySymbol {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FetchGene implements design.GeneProvider. Genes without a table entry
// get estimated exons and the default CDS window.
func (p *Provider) FetchGene(ctx context.Context, symbol, _ string) (design.GeneInfo, error) {
	if err := ctx.Err(); err != nil {
		return design.GeneInfo{}, err
	}
	key := strings.ToUpper(symbol)
	r, ok := p.bySymbol[key]
	if !ok {
		return design.GeneInfo{}, fmt.Errorf("%w: %s", ErrGeneNotFound, symbol)
	}
	s := strings.ToUpper(string(r.Seq))
	info := design.GeneInfo{
		GeneID:   r.ID,
		Symbol:   symbol,
		Sequence: s,
		Exons:    design.EstimateExons(len(s)),
		CDSStart: len(s) / 6,
		CDSEnd:   len(s) * 5 / 6,
	}
	st := p.tables[key]
	if st == nil {
		st = p.tables[strings.ToUpper(r.ID)]
	}
	if st != nil {
		if len(st.exons) > 0 {
			info.Exons = append([]design.Exon(nil), st.exons...)
		}
		if st.hasCDS {
			info.CDSStart = st.cdsStart
			if st.cdsEnd > 0 {
				info.CDSEnd = st.cdsEnd
			} else {
				info.CDSEnd = len(s)
			}
		}
	}
	return info, nil
}
