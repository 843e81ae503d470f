package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/types"
)

// ErrInvalidCatalog is returned when a hazard catalog fails validation
var ErrInvalidCatalog = goerr.New("invalid hazard catalog")

// Hazard is a catalog entry: a named category of adverse event being assessed
type Hazard struct {
	ID       int                  `json:"id"`
	Name     string               `json:"name"`
	Category types.HazardCategory `json:"category"`
}

// HazardCatalog is the fixed, ordered list of hazards an assessment is seeded
// with. It is static reference data; the scoring engine never reads it.
type HazardCatalog struct {
	hazards []Hazard
	index   map[int]int
}

// NewHazardCatalog validates hazards and builds an immutable catalog.
// Hazard IDs must be unique and positive, names non-empty.
func NewHazardCatalog(hazards []Hazard) (*HazardCatalog, error) {
	if len(hazards) == 0 {
		return nil, goerr.Wrap(ErrInvalidCatalog, "catalog has no hazards")
	}

	c := &HazardCatalog{
		hazards: make([]Hazard, len(hazards)),
		index:   make(map[int]int, len(hazards)),
	}
	for i, h := range hazards {
		if h.ID <= 0 {
			return nil, goerr.Wrap(ErrInvalidCatalog, "hazard ID must be positive", goerr.V("id", h.ID))
		}
		if h.Name == "" {
			return nil, goerr.Wrap(ErrInvalidCatalog, "hazard name is required", goerr.V("id", h.ID))
		}
		if err := h.Category.Validate(); err != nil {
			return nil, goerr.Wrap(ErrInvalidCatalog, "invalid hazard category",
				goerr.V("id", h.ID), goerr.V("cause", err.Error()))
		}
		if _, exists := c.index[h.ID]; exists {
			return nil, goerr.Wrap(ErrInvalidCatalog, "duplicate hazard ID", goerr.V("id", h.ID))
		}
		c.index[h.ID] = i
		c.hazards[i] = h
	}

	return c, nil
}

// Len returns the number of hazards in the catalog
func (c *HazardCatalog) Len() int {
	return len(c.hazards)
}

// Hazards returns a copy of the catalog entries in catalog order
func (c *HazardCatalog) Hazards() []Hazard {
	out := make([]Hazard, len(c.hazards))
	copy(out, c.hazards)
	return out
}

// Get looks up a hazard by ID
func (c *HazardCatalog) Get(id int) (Hazard, bool) {
	i, ok := c.index[id]
	if !ok {
		return Hazard{}, false
	}
	return c.hazards[i], true
}

// ByCategory returns the hazards tagged with category, in catalog order
func (c *HazardCatalog) ByCategory(category types.HazardCategory) []Hazard {
	var out []Hazard
	for _, h := range c.hazards {
		if h.Category == category {
			out = append(out, h)
		}
	}
	return out
}

// Seed returns a fresh rating collection for a new assessment with every
// rating set to 0 ("not applicable").
func (c *HazardCatalog) Seed() []HazardRating {
	ratings := make([]HazardRating, len(c.hazards))
	for i, h := range c.hazards {
		ratings[i] = HazardRating{
			ID:       h.ID,
			Name:     h.Name,
			Category: h.Category,
		}
	}
	return ratings
}
