package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ksites-core/pam"
	"ksites-core/score"
	"ksites-core/seq"
	"ksites/internal/appshell"
)

func newScoreCmd(a *app) *cobra.Command {
	var gcOptimal float64
	cmd := &cobra.Command{
		Use:   "score SPACER PAM",
		Short: "Score a single spacer and PAM",
		Long: `Score a single spacer and PAM.

Prints the on-target activity score, PAM quality and the sequence
properties used by the design filters.`,
		Example: `  ksites score GACGTACGTAGCTAGCTAGC AGG`,
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			spacer, err := seq.ValidateSpacer(args[0])
			if err != nil {
				return appshell.Usage(err)
			}
			pamSeq, err := seq.ValidatePAM(args[1])
			if err != nil {
				return appshell.Usage(err)
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "spacer\t%s\n", spacer)
			fmt.Fprintf(tw, "pam\t%s\n", pamSeq)
			fmt.Fprintf(tw, "on_target\t%.4f\n", score.OnTarget(spacer, pamSeq, gcOptimal))
			fmt.Fprintf(tw, "pam_quality\t%.2f\n", pam.Quality(pamSeq))
			fmt.Fprintf(tw, "gc_content\t%.4f\n", seq.GCContent(spacer))
			fmt.Fprintf(tw, "poly_t\t%t\n", seq.HasPolyT(spacer, 4))
			fmt.Fprintf(tw, "max_repeat\t%d\n", seq.MaxRepeat(spacer))
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&gcOptimal, "gc-optimal", 0.55, "GC fraction scored as optimal")
	return cmd
}

func newPamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pams",
		Short: "List supported Cas nucleases and their PAMs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "cas\tpam\tposition\tspacer\tpam_len\tquality")
			for _, c := range pam.All() {
				cfg, err := pam.Lookup(c)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f\n",
					cfg.Cas, strings.Join(cfg.Forward, ","), cfg.Position, cfg.SpacerLen, cfg.PAMLength, cfg.Quality)
			}
			return tw.Flush()
		},
	}
}
