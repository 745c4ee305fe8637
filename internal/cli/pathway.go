package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPathwayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pathway",
		Short: "Manage pathway membership used for conflict checks",
		Long: `Manage pathway membership used for conflict checks.

Off-targets that fall in genes sharing a pathway with the design target are
flagged as pathway conflicts. Membership is stored per organism.`,
	}
	cmd.AddCommand(newPathwayImportCmd(a), newPathwayNeighborsCmd(a))
	return cmd
}

func newPathwayImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import pathway membership rows",
		Long: `Import pathway membership rows.

Each line is a pathway id followed by one or more gene symbols, separated
by whitespace. Blank lines and '#' comments are skipped; rows already
present are ignored.`,
		Example: `  ksites pathway import kegg_hsa.tsv --organism 9606`,
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fh, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fh.Close()
			st, err := a.openStore(ctx, true)
			if err != nil {
				return err
			}
			defer st.Close()
			n, err := st.ImportTSV(ctx, a.cfg.Organism, fh)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			a.log.Info("imported pathway membership", "file", args[0], "organism", a.cfg.Organism, "added", n)
			fmt.Fprintf(a.stdout, "added %d memberships\n", n)
			return nil
		},
	}
}

func newPathwayNeighborsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "neighbors GENE",
		Short:   "List genes sharing a pathway with GENE",
		Example: `  ksites pathway neighbors TP53`,
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx, true)
			if err != nil {
				return err
			}
			defer st.Close()
			genes, err := st.PathwayNeighbors(ctx, args[0], a.cfg.Organism)
			if err != nil {
				return err
			}
			for _, g := range genes {
				fmt.Fprintln(a.stdout, g)
			}
			return nil
		},
	}
}
