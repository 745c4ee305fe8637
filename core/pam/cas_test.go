package pam

import (
	"errors"
	"reflect"
	"testing"
)

func TestCatalog_Snapshot(t *testing.T) {
	tests := []struct {
		cas     CasType
		fwd     []string
		rev     []string
		q       float64
		spacer  int
		pamLen  int
		pos     Position
	}{
		{SpCas9, []string{"NGG"}, []string{"CCN"}, 1.0, 20, 3, Prime3},
		{SaCas9, []string{"NNGRRT"}, []string{"AYYCNN"}, 0.9, 21, 6, Prime3},
		{Cas12a, []string{"TTTV"}, []string{"BAAA"}, 0.85, 23, 4, Prime5},
		{Cas9NG, []string{"NG"}, []string{"CN"}, 0.7, 20, 2, Prime3},
		{XCas9, []string{"NG", "GAW"}, []string{"CN", "WTC"}, 0.8, 20, 3, Prime3},
	}
	for _, tt := range tests {
		cfg, err := Lookup(tt.cas)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", tt.cas, err)
		}
		if !reflect.DeepEqual(cfg.Forward, tt.fwd) || !reflect.DeepEqual(cfg.Reverse, tt.rev) {
			t.Errorf("%s patterns = %v/%v, want %v/%v", tt.cas, cfg.Forward, cfg.Reverse, tt.fwd, tt.rev)
		}
		if cfg.Quality != tt.q || cfg.SpacerLen != tt.spacer || cfg.PAMLength != tt.pamLen || cfg.Position != tt.pos {
			t.Errorf("%s = %+v", tt.cas, cfg)
		}
	}
}

func TestLookupCopiesPatterns(t *testing.T) {
	a, _ := Lookup(XCas9)
	a.Forward[0] = "XX"
	b, _ := Lookup(XCas9)
	if b.Forward[0] != "NG" {
		t.Fatalf("catalog mutated through Lookup: %v", b.Forward)
	}
}

func TestParseCasType(t *testing.T) {
	for in, want := range map[string]CasType{
		"spcas9":  SpCas9,
		"CAS12A":  Cas12a,
		" cas9-ng ": Cas9NG,
		"xCas9":   XCas9,
	} {
		got, err := ParseCasType(in)
		if err != nil || got != want {
			t.Errorf("ParseCasType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseCasType("Cas13"); !errors.Is(err, ErrUnknownCas) {
		t.Fatalf("ParseCasType(Cas13) err = %v, want ErrUnknownCas", err)
	}
	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknownCas) {
		t.Fatalf("Lookup(nope) err = %v, want ErrUnknownCas", err)
	}
}

func TestAllOrder(t *testing.T) {
	want := []CasType{SpCas9, SaCas9, Cas12a, Cas9NG, XCas9}
	if got := All(); !reflect.DeepEqual(got, want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
}
