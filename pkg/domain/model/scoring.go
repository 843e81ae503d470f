package model

import (
	"sort"

	"github.com/secmon-lab/hva/pkg/domain/types"
)

const (
	// MaxTopRisks is the number of entries kept in RiskResults.TopRisks
	MaxTopRisks = 10

	// maxCountContribution caps alerts and activations in the likelihood sub-score
	maxCountContribution types.Rating = 3

	// maxResponseRating is the "best capability" end of the response scale
	maxResponseRating types.Rating = 3

	goodPreparednessThreshold = 2.5
	fairPreparednessThreshold = 1.5
)

// ScoredHazard is a normalized HazardRating with its composite risk score
type ScoredHazard struct {
	HazardRating
	Score int `json:"score"`
}

// TopRisk is a ranked entry of the top-risk list
type TopRisk struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RiskResults is the output of CalculateRiskScores. It is freshly allocated
// per call and shares nothing with the input collection.
type RiskResults struct {
	HazardsWithScores   []ScoredHazard `json:"hazardsWithScores"`
	TopRisks            []TopRisk      `json:"topRisks"`
	OverallPreparedness types.Verdict  `json:"overallPreparedness"`
}

// CalculateRiskScores scores every hazard, ranks them by score (descending,
// stable on ties), picks the top non-zero risks and derives the overall
// preparedness verdict. It never fails: invalid ratings count as 0.
func CalculateRiskScores(ratings []HazardRating) *RiskResults {
	scored := make([]ScoredHazard, len(ratings))
	for i, r := range ratings {
		n := r.Normalized()
		scored[i] = ScoredHazard{
			HazardRating: n,
			Score:        CalculateScore(n),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return &RiskResults{
		HazardsWithScores:   scored,
		TopRisks:            selectTopRisks(scored, MaxTopRisks),
		OverallPreparedness: PreparednessVerdict(AveragePreparedness(ratings)),
	}
}

// CalculateScore returns the composite risk score of a single hazard:
//
//	likelihood = probability + min(alerts, 3) + min(activations, 3)
//	impact     = humanImpact + propertyImpact + businessImpact
//	response   = (3 - preparedness) + (3 - internalResponse) + (3 - externalResponse)
//	score      = likelihood * impact + response
//
// A hazard with probability 0 always scores 0. The result is never negative.
func CalculateScore(r HazardRating) int {
	n := r.Normalized()
	if n.Probability == 0 {
		return 0
	}

	score := LikelihoodScore(n)*ImpactScore(n) + ResponseScore(n)
	if score < 0 {
		return 0
	}
	return score
}

// LikelihoodScore combines probability with capped alert and activation counts
func LikelihoodScore(r HazardRating) int {
	n := r.Normalized()
	return n.Probability.Int() +
		min(n.Alerts, maxCountContribution).Int() +
		min(n.Activations, maxCountContribution).Int()
}

// ImpactScore sums human, property and business impact
func ImpactScore(r HazardRating) int {
	n := r.Normalized()
	return n.HumanImpact.Int() + n.PropertyImpact.Int() + n.BusinessImpact.Int()
}

// ResponseScore sums the inverted response ratings: poorer capability adds more risk
func ResponseScore(r HazardRating) int {
	n := r.Normalized()
	return (maxResponseRating - n.Preparedness).Int() +
		(maxResponseRating - n.InternalResponse).Int() +
		(maxResponseRating - n.ExternalResponse).Int()
}

// AveragePreparedness averages preparedness, internal and external response
// over applicable hazards (probability > 0). It is 0 when none apply.
func AveragePreparedness(ratings []HazardRating) float64 {
	var total, relevant int
	for _, r := range ratings {
		n := r.Normalized()
		if n.Probability == 0 {
			continue
		}
		relevant++
		total += n.Preparedness.Int() + n.InternalResponse.Int() + n.ExternalResponse.Int()
	}

	if relevant == 0 {
		return 0
	}
	return float64(total) / float64(relevant*3)
}

// PreparednessVerdict maps an average preparedness to a verdict. The first
// matching threshold wins: >= 2.5 Good, >= 1.5 Fair, > 0 Poor, else Unknown.
func PreparednessVerdict(avg float64) types.Verdict {
	switch {
	case avg >= goodPreparednessThreshold:
		return types.VerdictGood
	case avg >= fairPreparednessThreshold:
		return types.VerdictFair
	case avg > 0:
		return types.VerdictPoor
	default:
		return types.VerdictUnknown
	}
}

func selectTopRisks(sorted []ScoredHazard, limit int) []TopRisk {
	top := make([]TopRisk, 0, limit)
	for _, h := range sorted {
		if len(top) == limit {
			break
		}
		if h.Score <= 0 {
			continue
		}
		top = append(top, TopRisk{Name: h.Name, Score: h.Score})
	}
	return top
}
