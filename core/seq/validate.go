package seq

import (
	"fmt"
	"strings"
	"unicode"
)

// Normalize drops whitespace and quotes and upper-cases bases.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ValidateSpacer normalizes raw and rejects anything outside A/C/G/T/N.
func ValidateSpacer(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return s, fmt.Errorf("empty spacer")
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return "", fmt.Errorf("invalid base %q at %d; allowed: A C G T N", s[i], i+1)
		}
	}
	return s, nil
}

// ValidatePAM normalizes raw and rejects non-IUPAC codes.
func ValidatePAM(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return s, fmt.Errorf("empty PAM")
	}
	if !IsIUPAC([]byte(s)) {
		return "", fmt.Errorf("invalid PAM %q; allowed: A C G T R Y S W K M B D H V N", raw)
	}
	return s, nil
}
