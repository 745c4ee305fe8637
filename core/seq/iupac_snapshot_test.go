package seq

import "testing"

func TestIUPACMask_Snapshot(t *testing.T) {
	if iupacMask['A'] != 1 || iupacMask['C'] != 2 || iupacMask['G'] != 4 || iupacMask['T'] != 8 {
		t.Fatalf("canonical masks corrupted: A=%d C=%d G=%d T=%d", iupacMask['A'], iupacMask['C'], iupacMask['G'], iupacMask['T'])
	}
	if iupacMask['U'] != iupacMask['T'] || iupacMask['u'] != iupacMask['t'] {
		t.Fatalf("U/u must equal T/t")
	}
	if iupacMask['R'] != (1|4) || iupacMask['Y'] != (2|8) || iupacMask['N'] != (1|2|4|8) {
		t.Fatalf("ambiguity masks corrupted: R=%d Y=%d N=%d", iupacMask['R'], iupacMask['Y'], iupacMask['N'])
	}
	if iupacMask['v'] != iupacMask['V'] || iupacMask['n'] != iupacMask['N'] {
		t.Fatalf("lowercase masks must mirror uppercase")
	}
}

func TestBaseMatch(t *testing.T) {
	tests := []struct {
		g, p byte
		want bool
	}{
		{'A', 'N', true},
		{'g', 'G', true},
		{'N', 'N', false},
		{'A', 'V', true},
		{'T', 'V', false},
		{'C', 'Y', true},
		{'A', 'W', true},
		{'G', 'W', false},
	}
	for _, tt := range tests {
		if got := BaseMatch(tt.g, tt.p); got != tt.want {
			t.Errorf("BaseMatch(%c,%c) = %v, want %v", tt.g, tt.p, got, tt.want)
		}
	}
}

func TestMatchAt(t *testing.T) {
	s := []byte("TTAGGC")
	if !MatchAt(s, 2, []byte("NGG")) {
		t.Fatal("NGG should match at 2")
	}
	if MatchAt(s, 4, []byte("NGG")) {
		t.Fatal("pattern past end must not match")
	}
	if MatchAt(s, -1, []byte("N")) {
		t.Fatal("negative offset must not match")
	}
}
