package cli

import (
	"context"

	"github.com/spf13/cobra"

	"ksites-core/pam"
	"ksites/internal/appshell"
	"ksites/pkg/api"
)

func newDesignCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design GENE",
		Short: "Design ranked guide RNAs for one gene",
		Long: `Design ranked guide RNAs for one gene.

The gene is resolved by the configured provider, PAM sites are scanned in
the target exons, and every spacer that passes the GC, poly-T and repeat
filters is scored for on-target activity and off-target risk. When the gene
cannot be fetched the output carries clearly labeled placeholder guides and
kind "fallback".`,
		Example: `  ksites design TP53
  ksites design BRCA1 --cas SaCas9 --exons 2,3 --format tsv
  ksites design MYGENE --provider local --fasta genes.fa --exon-table exons.tsv`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDesign(cmd.Context(), args[0])
		},
	}
	addDesignFlags(cmd)
	return cmd
}

func (a *app) runDesign(ctx context.Context, gene string) error {
	s, err := a.newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return a.emit(ctx, func(send func(api.DesignV1) error) error {
		res, err := s.d.Design(ctx, gene, a.cfg.Organism, s.opts)
		if err != nil {
			return err
		}
		a.log.Info("designed", "gene", gene, "cas", s.opts.Cas, "kind", res.Kind, "guides", len(res.Guides))
		d, err := s.toAPI(ctx, gene, s.opts.Cas, res)
		if err != nil {
			return err
		}
		return send(d)
	})
}

func newMultiCmd(a *app) *cobra.Command {
	var casList []string
	cmd := &cobra.Command{
		Use:   "multi GENE",
		Short: "Design guides for one gene with several Cas nucleases",
		Long: `Design guides for one gene with several Cas nucleases.

The gene is fetched once and designed with every requested nuclease (all
supported nucleases by default). A failure for one nuclease does not affect
the others.`,
		Example: `  ksites multi TP53
  ksites multi TP53 --cas-types SpCas9,Cas12a --format jsonl`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []pam.CasType
			for _, s := range casList {
				c, err := pam.ParseCasType(s)
				if err != nil {
					return appshell.Usage(err)
				}
				types = append(types, c)
			}
			return a.runMulti(cmd.Context(), args[0], types)
		},
	}
	addDesignFlags(cmd)
	cmd.Flags().StringSliceVar(&casList, "cas-types", nil, "nucleases to compare (default all)")
	return cmd
}

func (a *app) runMulti(ctx context.Context, gene string, types []pam.CasType) error {
	s, err := a.newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return a.emit(ctx, func(send func(api.DesignV1) error) error {
		results, err := s.d.DesignMulti(ctx, gene, a.cfg.Organism, types, s.opts)
		if err != nil {
			return err
		}
		for _, mr := range results {
			d, err := s.toAPI(ctx, gene, mr.Cas, mr.Result)
			if err != nil {
				return err
			}
			if err := send(d); err != nil {
				return err
			}
		}
		return nil
	})
}
