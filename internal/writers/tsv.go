package writers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ksites/pkg/api"
)

// TSVHeader is the header row of the tsv format.
const TSVHeader = "gene\tcas_type\tkind\trank\tseq\tpam\tstart\tstrand\tdoench_score\tspecificity_score\tcomposite\toff_targets\tgc_content\trepeat_count\tpam_quality\texon_number\texon_position\tcds_frame\tpathway_conflict\tconflict_genes\tseverity\ttop_mismatch_positions"

func IntsCSV(a []int) string {
	if len(a) == 0 {
		return ""
	}
	ss := make([]string, len(a))
	for i, v := range a {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, ",")
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func optString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// FormatGuideRowTSV returns one tsv row (no trailing newline).
func FormatGuideRowTSV(d api.DesignV1, rank int, g api.GuideV1) string {
	var topMM string
	if len(g.OffTargets) > 0 {
		topMM = IntsCSV(g.OffTargets[0].MismatchPositions)
	}
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%s\t%s\t%d\t%s\t%.4f\t%.4f\t%.4f\t%d\t%.3f\t%d\t%.2f\t%s\t%s\t%s\t%t\t%s\t%s\t%s",
		d.Gene, g.CasType, d.Kind, rank,
		g.Seq, g.PAM, g.Start, g.Strand,
		g.DoenchScore, g.Specificity, g.DoenchScore*g.Specificity,
		g.OffTargetCount, g.GCContent, g.RepeatCount, g.PAMQuality,
		optInt(g.ExonNumber), optString(g.ExonPosition), optInt(g.CDSFrame),
		g.PathwayConflict, strings.Join(g.ConflictGenes, ","),
		g.Severity, topMM,
	)
}

// WriteTSV writes the header and one row per guide, ranked from 1.
func WriteTSV(w io.Writer, designs []api.DesignV1) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, TSVHeader); err != nil {
		return err
	}
	for _, d := range designs {
		for i, g := range d.Guides {
			if _, err := fmt.Fprintln(bw, FormatGuideRowTSV(d, i+1, g)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func init() { Register(FormatTSV, WriteTSV) }
