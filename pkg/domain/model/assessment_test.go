package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/hva/pkg/domain/model"
)

func TestNewAssessmentID(t *testing.T) {
	id1 := model.NewAssessmentID()
	id2 := model.NewAssessmentID()
	gt.String(t, id1.String()).NotEqual("")
	gt.Value(t, id1).NotEqual(id2)
}

func TestAssessment_Copy(t *testing.T) {
	ratings := []model.HazardRating{{ID: 1, Name: "Flood", Probability: 2, HumanImpact: 2}}
	original := &model.Assessment{
		ID:        model.NewAssessmentID(),
		OwnerID:   "user-1",
		Name:      "2026 annual",
		Ratings:   ratings,
		Results:   model.CalculateRiskScores(ratings),
		CreatedAt: time.Now(),
	}

	copied := original.Copy()
	copied.Ratings[0].Name = "changed"
	copied.Results.HazardsWithScores[0].Score = 0
	copied.Results.TopRisks[0].Name = "changed"

	gt.Value(t, original.Ratings[0].Name).Equal("Flood")
	gt.Value(t, original.Results.HazardsWithScores[0].Score).Equal(13)
	gt.Value(t, original.Results.TopRisks[0].Name).Equal("Flood")

	var nilAssessment *model.Assessment
	gt.Value(t, nilAssessment.Copy()).Nil()
}
