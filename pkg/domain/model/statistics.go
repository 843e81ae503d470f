package model

// HighRiskThreshold is the score from which a hazard is reported as high risk
const HighRiskThreshold = 25

// Statistics summarizes a scored assessment for reports
type Statistics struct {
	AssessedCount      int     `json:"assessedCount"`
	TotalScore         int     `json:"totalScore"`
	AverageScore       float64 `json:"averageScore"`
	HighRiskCount      int     `json:"highRiskCount"`
	HighRiskPercentage float64 `json:"highRiskPercentage"`
}

// IsHighRisk reports whether score reaches HighRiskThreshold
func IsHighRisk(score int) bool {
	return score >= HighRiskThreshold
}

// Summarize derives report statistics from results. Only applicable hazards
// (probability > 0) count as assessed.
func Summarize(results *RiskResults) Statistics {
	var stats Statistics
	if results == nil {
		return stats
	}

	for _, h := range results.HazardsWithScores {
		if h.Probability > 0 {
			stats.AssessedCount++
		}
		stats.TotalScore += h.Score
		if IsHighRisk(h.Score) {
			stats.HighRiskCount++
		}
	}

	stats.AverageScore = float64(stats.TotalScore) / float64(max(stats.AssessedCount, 1))
	if stats.AssessedCount > 0 {
		stats.HighRiskPercentage = float64(stats.HighRiskCount) / float64(stats.AssessedCount) * 100
	}

	return stats
}
