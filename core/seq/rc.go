// core/seq/rc.go
package seq

var complement [256]byte

func init() {
	pairs := []struct{ a, b byte }{
		{'A', 'T'}, {'C', 'G'},
		{'R', 'Y'}, {'S', 'S'}, {'W', 'W'},
		{'K', 'M'}, {'B', 'V'}, {'D', 'H'},
		{'N', 'N'},
	}
	for _, p := range pairs {
		complement[p.a], complement[p.b] = p.b, p.a
		complement[p.a|0x20], complement[p.b|0x20] = p.b, p.a
	}
	complement['U'], complement['u'] = 'A', 'A'
}

// RevComp returns the reverse complement of s using IUPAC pairs.
// Output is upper case; bytes outside the alphabet become 'N'.
func RevComp(s []byte) []byte {
	n := len(s)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[s[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// RevCompString is RevComp for strings.
func RevCompString(s string) string {
	return string(RevComp([]byte(s)))
}
