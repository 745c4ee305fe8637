// Package score holds the sequence-level scoring models: on-target
// efficiency, CFD off-target activity and the per-site severity rule.
package score

// Severity grades risk for an off-target site or a whole guide.
type Severity string

const (
	Critical Severity = "CRITICAL"
	High     Severity = "HIGH"
	Medium   Severity = "MEDIUM"
	Low      Severity = "LOW"
	Unknown  Severity = "UNKNOWN"
)

// Rank orders severities for comparison; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}
	return 0
}

// Valid reports whether s is one of the defined levels.
func (s Severity) Valid() bool {
	return s.Rank() > 0 || s == Unknown
}

// OffTargetSeverity grades a single site from its final score and
// mismatch count.
func OffTargetSeverity(score float64, mismatches int) Severity {
	switch {
	case score > 0.5 && mismatches <= 2:
		return Critical
	case score > 0.3 || mismatches <= 2:
		return High
	case score > 0.1 || mismatches <= 3:
		return Medium
	}
	return Low
}
