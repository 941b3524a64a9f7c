package types

// Severity represents the outcome severity classification of an incident
type Severity string

const (
	SeverityNearMiss               Severity = "Near Miss"
	SeverityMinor                  Severity = "Minor"
	SeverityPotentiallySignificant Severity = "Potentially Significant"
	SeveritySerious                Severity = "Serious"
	SeverityMajor                  Severity = "Major"
)

// AllSeverities returns all valid severities
func AllSeverities() []Severity {
	return []Severity{
		SeverityNearMiss,
		SeverityMinor,
		SeverityPotentiallySignificant,
		SeveritySerious,
		SeverityMajor,
	}
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNearMiss, SeverityMinor, SeverityPotentiallySignificant,
		SeveritySerious, SeverityMajor:
		return true
	default:
		return false
	}
}

// IsHigh reports whether the severity counts toward the high-severity share
// of a cluster (Major or Serious).
func (s Severity) IsHigh() bool {
	return s == SeverityMajor || s == SeveritySerious
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}
