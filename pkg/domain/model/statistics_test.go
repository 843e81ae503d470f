package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hva/pkg/domain/model"
)

func TestSummarize(t *testing.T) {
	t.Run("summarizes applicable hazards", func(t *testing.T) {
		results := model.CalculateRiskScores([]model.HazardRating{
			// 8*9+9 = 81
			{ID: 1, Name: "A", Probability: 3, Alerts: 5, Activations: 2, HumanImpact: 3, PropertyImpact: 3, BusinessImpact: 3},
			// 1*1+9 = 10
			{ID: 2, Name: "B", Probability: 1, HumanImpact: 1},
			{ID: 3, Name: "C"},
		})

		stats := model.Summarize(results)
		gt.Value(t, stats.AssessedCount).Equal(2)
		gt.Value(t, stats.TotalScore).Equal(91)
		gt.Value(t, stats.AverageScore).Equal(45.5)
		gt.Value(t, stats.HighRiskCount).Equal(1)
		gt.Value(t, stats.HighRiskPercentage).Equal(50.0)
	})

	t.Run("nothing assessed", func(t *testing.T) {
		stats := model.Summarize(model.CalculateRiskScores([]model.HazardRating{{ID: 1, Name: "A"}}))
		gt.Value(t, stats).Equal(model.Statistics{})
	})

	t.Run("nil results", func(t *testing.T) {
		gt.Value(t, model.Summarize(nil)).Equal(model.Statistics{})
	})
}

func TestIsHighRisk(t *testing.T) {
	gt.Bool(t, model.IsHighRisk(24)).False()
	gt.Bool(t, model.IsHighRisk(25)).True()
	gt.Bool(t, model.IsHighRisk(90)).True()
}
