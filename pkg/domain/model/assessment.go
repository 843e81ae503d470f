package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/hva/pkg/domain/types"
)

// AssessmentID is a UUID-based identifier for Assessment
type AssessmentID string

// NewAssessmentID generates a new UUID v4 AssessmentID
func NewAssessmentID() AssessmentID {
	return AssessmentID(uuid.New().String())
}

// String returns the string representation of AssessmentID
func (id AssessmentID) String() string {
	return string(id)
}

// Assessment is a saved snapshot of the ratings an owner entered and the
// results computed from them at save time.
type Assessment struct {
	ID        AssessmentID   `json:"id"`
	OwnerID   types.OwnerID  `json:"ownerId"`
	Name      string         `json:"name"`
	Ratings   []HazardRating `json:"ratings"`
	Results   *RiskResults   `json:"results"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Copy returns a deep copy of the assessment
func (a *Assessment) Copy() *Assessment {
	if a == nil {
		return nil
	}
	copied := *a
	if a.Ratings != nil {
		copied.Ratings = make([]HazardRating, len(a.Ratings))
		copy(copied.Ratings, a.Ratings)
	}
	copied.Results = a.Results.Copy()
	return &copied
}

// Copy returns a deep copy of the results
func (r *RiskResults) Copy() *RiskResults {
	if r == nil {
		return nil
	}
	copied := &RiskResults{
		HazardsWithScores:   make([]ScoredHazard, len(r.HazardsWithScores)),
		TopRisks:            make([]TopRisk, len(r.TopRisks)),
		OverallPreparedness: r.OverallPreparedness,
	}
	copy(copied.HazardsWithScores, r.HazardsWithScores)
	copy(copied.TopRisks, r.TopRisks)
	return copied
}
