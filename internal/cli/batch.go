package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"ksites/internal/appshell"
	"ksites/internal/pipeline"
	"ksites/pkg/api"
)

func newBatchCmd(a *app) *cobra.Command {
	var genesFile string
	cmd := &cobra.Command{
		Use:   "batch [GENE...]",
		Short: "Design guides for many genes concurrently",
		Long: `Design guides for many genes concurrently.

Genes are taken from the arguments and from --genes-file (one symbol per
line, '#' comments allowed). Output keeps the input order; a gene that
cannot be fetched yields a fallback design and the batch continues.`,
		Example: `  ksites batch TP53 BRCA1 EGFR --workers 4 --format jsonl
  ksites batch --genes-file panel.txt --record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			genes := append([]string(nil), args...)
			if genesFile != "" {
				more, err := readGeneList(genesFile)
				if err != nil {
					return err
				}
				genes = append(genes, more...)
			}
			if len(genes) == 0 {
				return appshell.Usage(errors.New("no genes given (arguments or --genes-file)"))
			}
			return a.runBatch(cmd.Context(), genes)
		},
	}
	addDesignFlags(cmd)
	cmd.Flags().StringVar(&genesFile, "genes-file", "", "file with one gene symbol per line")
	cmd.Flags().IntP("workers", "j", 0, "concurrent designs (default GOMAXPROCS)")
	return cmd
}

func readGeneList(path string) ([]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var out []string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		out = append(out, strings.Fields(line)[0])
	}
	return out, sc.Err()
}

func (a *app) runBatch(ctx context.Context, genes []string) error {
	s, err := a.newSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	a.log.Info("batch started", "genes", len(genes), "workers", workers, "cas", s.opts.Cas)

	fallbacks := 0
	err = a.emit(ctx, func(send func(api.DesignV1) error) error {
		return pipeline.ForEachGene(ctx, pipeline.Config{
			Workers:  workers,
			Organism: a.cfg.Organism,
			Options:  s.opts,
		}, genes, s.d, func(it pipeline.Item) error {
			if it.Result.IsFallback() {
				fallbacks++
			}
			d, err := s.toAPI(ctx, it.Gene, s.opts.Cas, it.Result)
			if err != nil {
				return fmt.Errorf("%s: %w", it.Gene, err)
			}
			return send(d)
		})
	})
	if err == nil {
		a.log.Info("batch finished", "genes", len(genes), "fallbacks", fallbacks)
	}
	return err
}
