package types

import "strings"

// Verdict is the organization-wide preparedness verdict. Values are complete
// sentences consumed verbatim by reports.
type Verdict string

const (
	VerdictGood    Verdict = "Good - The organization is well-prepared for most hazards."
	VerdictFair    Verdict = "Fair - The organization has moderate preparedness for hazards."
	VerdictPoor    Verdict = "Poor - The organization needs significant improvement in preparedness."
	VerdictUnknown Verdict = "Unknown"
)

// AllVerdicts returns every verdict from best to unknown
func AllVerdicts() []Verdict {
	return []Verdict{VerdictGood, VerdictFair, VerdictPoor, VerdictUnknown}
}

// IsValid checks if the verdict is one of the fixed verdicts
func (v Verdict) IsValid() bool {
	switch v {
	case VerdictGood, VerdictFair, VerdictPoor, VerdictUnknown:
		return true
	}
	return false
}

// Level returns the one-word level of the verdict ("Good", "Fair", "Poor" or "Unknown")
func (v Verdict) Level() string {
	if !v.IsValid() {
		return string(VerdictUnknown)
	}
	level, _, _ := strings.Cut(string(v), " - ")
	return level
}

// String returns the verdict sentence
func (v Verdict) String() string {
	return string(v)
}
