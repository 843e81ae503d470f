package types

var (
	severityLabels = [...]string{"N/A", "Low", "Moderate", "High"}
	responseLabels = [...]string{"N/A", "Poor", "Fair", "Good"}
)

// ProbabilityLabel returns the display label of a probability rating.
// Values outside 0..3 are labelled "N/A".
func ProbabilityLabel(r Rating) string {
	return lookupLabel(severityLabels, r)
}

// ImpactLabel returns the display label of a human, property or business impact rating
func ImpactLabel(r Rating) string {
	return lookupLabel(severityLabels, r)
}

// ResponseLabel returns the display label of a preparedness, internal or external response rating
func ResponseLabel(r Rating) string {
	return lookupLabel(responseLabels, r)
}

func lookupLabel(labels [4]string, r Rating) string {
	if r < 0 || int(r) >= len(labels) {
		return labels[0]
	}
	return labels[r]
}
