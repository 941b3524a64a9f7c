package types

import "strings"

// TimingBucket is the normalized timing classification of a corrective action.
// Raw timing values are free text and are bucketed at read time.
type TimingBucket string

const (
	TimingImmediate   TimingBucket = "Immediate"
	TimingShortTerm   TimingBucket = "Short-Term"
	TimingLongTerm    TimingBucket = "Long-Term"
	TimingOther       TimingBucket = "Other"
	TimingUnspecified TimingBucket = "Unspecified"
)

// NormalizeTiming buckets a free-text timing value by keyword matching.
// The long-term check runs before short-term so that ">90 days" is not
// captured by the "90 days" short-term keyword.
func NormalizeTiming(raw string) TimingBucket {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return TimingUnspecified
	}

	switch {
	case strings.Contains(s, "immediate"),
		strings.Contains(s, "right away"),
		strings.Contains(s, "asap"):
		return TimingImmediate

	case strings.Contains(s, ">90"),
		strings.Contains(s, "over 90"),
		strings.Contains(s, "90+"):
		return TimingLongTerm

	case strings.Contains(s, "<30"),
		strings.Contains(s, "< 30"),
		strings.Contains(s, "0-30"),
		strings.Contains(s, "30 days"),
		strings.Contains(s, "30-60"),
		strings.Contains(s, "60 days"),
		strings.Contains(s, "60-90"),
		strings.Contains(s, "90 days"):
		return TimingShortTerm

	default:
		return TimingOther
	}
}

// String returns the string representation of the timing bucket
func (t TimingBucket) String() string {
	return string(t)
}
