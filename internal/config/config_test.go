package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"

	"ksites-core/design"
	"ksites-core/pam"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestDefaultsMatchEngine(t *testing.T) {
	c, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o, err := c.DesignOptions()
	if err != nil {
		t.Fatalf("DesignOptions: %v", err)
	}
	want := design.DefaultOptions()
	want.TargetExons = []int{}
	o.TargetExons = []int{}
	if !reflect.DeepEqual(o, want) {
		t.Fatalf("options = %+v\nwant %+v", o, want)
	}
	if c.NCBI.Timeout != 30*time.Second || c.NCBI.Rate != 3 || c.Provider != "ncbi" {
		t.Fatalf("ncbi defaults = %+v", c.NCBI)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	yaml := `cas: cas12a
provider: local
local:
  fasta: genes.fa
design:
  gc-min: 0.3
  exons: [2, 3]
ncbi:
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	v := newViper()
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	c, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	o, _ := c.DesignOptions()
	if o.Cas != pam.Cas12a || o.GCMin != 0.3 || !reflect.DeepEqual(o.TargetExons, []int{2, 3}) {
		t.Fatalf("options = %+v", o)
	}
	if c.NCBI.Timeout != 5*time.Second || c.Local.FASTA != "genes.fa" {
		t.Fatalf("config = %+v", c)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("KSITES_ORGANISM", "10090")
	t.Setenv("KSITES_DESIGN_TOP_N", "5")
	c, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Organism != "10090" || c.Design.TopN != 5 {
		t.Fatalf("env not applied: organism=%s top-n=%d", c.Organism, c.Design.TopN)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"bad cas", "cas", "Cas13"},
		{"bad provider", "provider", "ensembl"},
		{"local without fasta", "provider", "local"},
		{"reference without path", "offtarget.source", "reference"},
		{"bad source", "offtarget.source", "bwa"},
		{"gc order", "design.gc-min", 0.9},
		{"negative workers", "workers", -1},
		{"zero top-n", "design.top-n", 0},
		{"zero rate", "ncbi.rate", 0.0},
	}
	for _, tt := range tests {
		v := newViper()
		v.Set(tt.key, tt.val)
		if _, err := Load(v); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}
