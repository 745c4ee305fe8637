// Package cli is the ksites command tree. Settings come from viper
// (defaults, --config file, KSITES_* variables, flags) and every command
// returns errors that appshell maps to exit codes.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ksites/internal/appshell"
	"ksites/internal/config"
	"ksites/internal/logging"
	"ksites/internal/version"
)

// app is the state shared by one invocation of the command tree.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
	log    *slog.Logger
}

// flagKeys maps flag names to settings keys. Only flags present on the
// executing command are bound.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"quiet":      "log.quiet",
	"db":         "store.path",
	"record":     "store.record",

	"organism":   "organism",
	"cas":        "cas",
	"provider":   "provider",
	"format":     "format",
	"workers":    "workers",
	"fasta":      "local.fasta",
	"exon-table": "local.exons",

	"ncbi-api-key": "ncbi.api-key",
	"ncbi-email":   "ncbi.email",
	"ncbi-rate":    "ncbi.rate",

	"offtarget-source": "offtarget.source",
	"reference":        "offtarget.reference",
	"hit-cap":          "offtarget.hit-cap",

	"exons":              "design.exons",
	"gc-min":             "design.gc-min",
	"gc-max":             "design.gc-max",
	"gc-optimal":         "design.gc-optimal",
	"avoid-poly-t":       "design.avoid-poly-t",
	"max-repeats":        "design.max-repeats",
	"min-on-target":      "design.min-on-target",
	"max-off-targets":    "design.max-off-targets",
	"max-mismatches":     "design.max-mismatches",
	"off-target-details": "design.off-target-details",
	"top-n":              "design.top-n",
}

// Run executes the command tree with argv and returns the exit code.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(argv)
	err := root.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		err = appshell.Usage(err)
	}
	code := appshell.Code(err)
	if err != nil && code != appshell.ExitCancelled {
		fmt.Fprintln(stderr, "error:", err)
	}
	return code
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:   "ksites",
		Short: "Design and score CRISPR guide RNAs for a gene",
		Long: `Design and score CRISPR guide RNAs for a gene.

ksites finds PAM sites in the target exons of a gene, scores each spacer
for on-target activity and off-target risk, and ranks the survivors. Genes
come from NCBI E-utilities or a local FASTA file; pathway membership and
run history live in a SQLite database.`,
		Version:           version.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return appshell.Usage(err) })

	pf := root.PersistentFlags()
	pf.String("config", "", "settings file (yaml, json or toml)")
	pf.String("log-level", "", "log level: debug, info, warn or error (default info)")
	pf.String("log-format", "", "log format: text or json (default text)")
	pf.BoolP("quiet", "q", false, "only log errors")
	pf.String("db", "", "SQLite database for pathways and runs (default ksites.db)")
	pf.String("organism", "", "NCBI taxonomy id (default 9606)")

	root.AddCommand(
		newDesignCmd(a),
		newMultiCmd(a),
		newBatchCmd(a),
		newScoreCmd(a),
		newPamsCmd(a),
		newPathwayCmd(a),
		newRunsCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup binds the executing command's flags, then loads and validates
// settings and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = a.v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.ReadFile(a.v, path); err != nil {
			return appshell.Usage(err)
		}
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return appshell.Usage(err)
	}
	a.cfg = cfg
	a.log, err = logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format, cfg.Log.Quiet)
	return appshell.Usage(err)
}

// usageArgs marks argument-count failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return appshell.Usage(fn(cmd, args))
	}
}

func addDesignFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("cas", "", "Cas nuclease: SpCas9, SaCas9, Cas12a, Cas9-NG or xCas9 (default SpCas9)")
	f.String("provider", "", "gene source: ncbi or local (default ncbi)")
	f.String("fasta", "", "local provider: transcript FASTA")
	f.String("exon-table", "", "local provider: exon table (gene number start end)")
	f.String("ncbi-api-key", "", "NCBI API key")
	f.String("ncbi-email", "", "contact e-mail sent to NCBI")
	f.Float64("ncbi-rate", 0, "NCBI requests per second (default 3)")
	f.StringP("format", "f", "", "output format: json, jsonl, tsv or html (default json)")
	f.Bool("record", false, "record the run in the database")

	f.String("offtarget-source", "", "off-target candidates: heuristic or reference (default heuristic)")
	f.String("reference", "", "reference FASTA for the reference off-target source")
	f.Int("hit-cap", 0, "max reference matches per record and strand (0 = unlimited)")

	f.IntSlice("exons", nil, "1-based exons to target (default first three)")
	f.Float64("gc-min", 0, "minimum spacer GC fraction (default 0.40)")
	f.Float64("gc-max", 0, "maximum spacer GC fraction (default 0.70)")
	f.Float64("gc-optimal", 0, "GC fraction scored as optimal (default 0.55)")
	f.Bool("avoid-poly-t", true, "reject spacers with a TTTT run")
	f.Int("max-repeats", 0, "longest allowed homopolymer (default 4)")
	f.Float64("min-on-target", 0, "minimum on-target score (default 0.3)")
	f.Int("max-off-targets", 0, "off-targets kept per guide (default 50)")
	f.Int("max-mismatches", 0, "mismatches allowed in off-targets (default 4)")
	f.Bool("off-target-details", true, "include off-target records in the output")
	f.Int("top-n", 0, "guides returned per design (default 20)")
}
