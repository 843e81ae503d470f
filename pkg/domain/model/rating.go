package model

import "github.com/secmon-lab/hva/pkg/domain/types"

// HazardRating is the per-hazard input of the scoring engine.
//
// Probability, impact and response ratings use a 0..3 scale; probability 0
// means "not applicable". Alerts and activations are historical counts.
// Response ratings are "higher is better".
type HazardRating struct {
	ID       int                  `json:"id"`
	Name     string               `json:"name"`
	Category types.HazardCategory `json:"category,omitempty"`

	Probability types.Rating `json:"probability"`
	Alerts      types.Rating `json:"alerts"`
	Activations types.Rating `json:"activations"`

	HumanImpact    types.Rating `json:"humanImpact"`
	PropertyImpact types.Rating `json:"propertyImpact"`
	BusinessImpact types.Rating `json:"businessImpact"`

	Preparedness     types.Rating `json:"preparedness"`
	InternalResponse types.Rating `json:"internalResponse"`
	ExternalResponse types.Rating `json:"externalResponse"`
}

// Normalized returns a copy with every scorable field coerced into a safe
// value. ID, Name and Category are carried through unchanged.
func (r HazardRating) Normalized() HazardRating {
	r.Probability = r.Probability.Clamp()
	r.Alerts = r.Alerts.Clamp()
	r.Activations = r.Activations.Clamp()
	r.HumanImpact = r.HumanImpact.Clamp()
	r.PropertyImpact = r.PropertyImpact.Clamp()
	r.BusinessImpact = r.BusinessImpact.Clamp()
	r.Preparedness = r.Preparedness.Clamp()
	r.InternalResponse = r.InternalResponse.Clamp()
	r.ExternalResponse = r.ExternalResponse.Clamp()
	return r
}

// IsApplicable reports whether the hazard takes part in scoring (probability > 0)
func (r HazardRating) IsApplicable() bool {
	return r.Probability.Clamp() > 0
}
