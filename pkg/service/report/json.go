package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/secmon-lab/hva/pkg/domain/model"
)

type jsonReport struct {
	Title       string             `json:"title"`
	Name        string             `json:"name"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Results     *model.RiskResults `json:"results"`
	Statistics  model.Statistics   `json:"statistics"`
}

func renderJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Title:       doc.title(),
		Name:        doc.Name,
		GeneratedAt: doc.GeneratedAt,
		Results:     doc.Results,
		Statistics:  doc.Statistics,
	})
}
