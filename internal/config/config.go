// Package config is for app wide settings that are unmarshalled
// from Viper (defaults, an optional YAML file, KSITES_* environment
// variables and command line flags, in increasing precedence).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ksites-core/design"
	"ksites-core/pam"
)

// DesignConfig holds guide filtering and ranking settings.
type DesignConfig struct {
	Exons            []int   `mapstructure:"exons"`
	GCMin            float64 `mapstructure:"gc-min"`
	GCMax            float64 `mapstructure:"gc-max"`
	GCOptimal        float64 `mapstructure:"gc-optimal"`
	AvoidPolyT       bool    `mapstructure:"avoid-poly-t"`
	MaxRepeats       int     `mapstructure:"max-repeats"`
	MinOnTarget      float64 `mapstructure:"min-on-target"`
	MaxOffTargets    int     `mapstructure:"max-off-targets"`
	MaxMismatches    int     `mapstructure:"max-mismatches"`
	OffTargetDetails bool    `mapstructure:"off-target-details"`
	TopN             int     `mapstructure:"top-n"`
}

// NCBIConfig configures the E-utilities gene provider.
type NCBIConfig struct {
	BaseURL string        `mapstructure:"base-url"`
	APIKey  string        `mapstructure:"api-key"`
	Email   string        `mapstructure:"email"`
	Tool    string        `mapstructure:"tool"`
	Rate    float64       `mapstructure:"rate"` // requests per second
	Timeout time.Duration `mapstructure:"timeout"`
}

// LocalConfig points the local provider at a FASTA and an exon table.
type LocalConfig struct {
	FASTA string `mapstructure:"fasta"`
	Exons string `mapstructure:"exons"`
}

// StoreConfig is the SQLite database for pathways and run history.
type StoreConfig struct {
	Path   string `mapstructure:"path"`
	Record bool   `mapstructure:"record"`
}

// OffTargetConfig selects the off-target candidate source.
type OffTargetConfig struct {
	Source    string `mapstructure:"source"` // heuristic | reference
	Reference string `mapstructure:"reference"`
	HitCap    int    `mapstructure:"hit-cap"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Quiet  bool   `mapstructure:"quiet"`
}

// Config is the root-level settings struct.
type Config struct {
	Organism  string          `mapstructure:"organism"`
	Cas       string          `mapstructure:"cas"`
	Provider  string          `mapstructure:"provider"` // ncbi | local
	Format    string          `mapstructure:"format"`
	Workers   int             `mapstructure:"workers"`
	Design    DesignConfig    `mapstructure:"design"`
	NCBI      NCBIConfig      `mapstructure:"ncbi"`
	Local     LocalConfig     `mapstructure:"local"`
	Store     StoreConfig     `mapstructure:"store"`
	OffTarget OffTargetConfig `mapstructure:"offtarget"`
	Log       LogConfig       `mapstructure:"log"`
}

const EnvPrefix = "KSITES"

// SetDefaults registers every default and wires environment lookup.
func SetDefaults(v *viper.Viper) {
	d := design.DefaultOptions()
	v.SetDefault("organism", "9606")
	v.SetDefault("cas", string(d.Cas))
	v.SetDefault("provider", "ncbi")
	v.SetDefault("format", "json")
	v.SetDefault("workers", 0)

	v.SetDefault("design.exons", []int{})
	v.SetDefault("design.gc-min", d.GCMin)
	v.SetDefault("design.gc-max", d.GCMax)
	v.SetDefault("design.gc-optimal", d.GCOptimal)
	v.SetDefault("design.avoid-poly-t", d.AvoidPolyT)
	v.SetDefault("design.max-repeats", d.MaxRepeats)
	v.SetDefault("design.min-on-target", d.MinOnTarget)
	v.SetDefault("design.max-off-targets", d.MaxOffTargets)
	v.SetDefault("design.max-mismatches", d.MaxMismatches)
	v.SetDefault("design.off-target-details", d.IncludeOffTargets)
	v.SetDefault("design.top-n", d.TopN)

	v.SetDefault("ncbi.base-url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils")
	v.SetDefault("ncbi.tool", "ksites")
	v.SetDefault("ncbi.rate", 3.0)
	v.SetDefault("ncbi.timeout", 30*time.Second)

	v.SetDefault("store.path", "ksites.db")
	v.SetDefault("offtarget.source", "heuristic")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// ReadFile merges a YAML/JSON/TOML settings file into v.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks settings that DesignOptions does not cover.
func (c Config) Validate() error {
	switch c.Provider {
	case "ncbi", "local":
	default:
		return fmt.Errorf("provider must be ncbi or local (got %q)", c.Provider)
	}
	if c.Provider == "local" && c.Local.FASTA == "" {
		return fmt.Errorf("provider local needs local.fasta")
	}
	switch c.OffTarget.Source {
	case "heuristic":
	case "reference":
		if c.OffTarget.Reference == "" {
			return fmt.Errorf("offtarget source reference needs offtarget.reference")
		}
	default:
		return fmt.Errorf("offtarget.source must be heuristic or reference (got %q)", c.OffTarget.Source)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be ≥ 0")
	}
	if c.OffTarget.HitCap < 0 {
		return fmt.Errorf("offtarget.hit-cap must be ≥ 0")
	}
	if c.NCBI.Rate <= 0 {
		return fmt.Errorf("ncbi.rate must be > 0")
	}
	_, err := c.DesignOptions()
	return err
}

// DesignOptions translates the design settings into engine options.
func (c Config) DesignOptions() (design.Options, error) {
	cas, err := pam.ParseCasType(c.Cas)
	if err != nil {
		return design.Options{}, err
	}
	o := design.Options{
		Cas:               cas,
		TargetExons:       append([]int(nil), c.Design.Exons...),
		GCMin:             c.Design.GCMin,
		GCMax:             c.Design.GCMax,
		GCOptimal:         c.Design.GCOptimal,
		AvoidPolyT:        c.Design.AvoidPolyT,
		MaxRepeats:        c.Design.MaxRepeats,
		MinOnTarget:       c.Design.MinOnTarget,
		MaxOffTargets:     c.Design.MaxOffTargets,
		MaxMismatches:     c.Design.MaxMismatches,
		IncludeOffTargets: c.Design.OffTargetDetails,
		TopN:              c.Design.TopN,
	}
	if _, err := o.Validate(); err != nil {
		return design.Options{}, err
	}
	return o, nil
}
