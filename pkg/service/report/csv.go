package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/secmon-lab/hva/pkg/domain/types"
)

var csvHeader = []string{
	"ID",
	"Hazard Name",
	"Probability",
	"Number of Alerts",
	"Number of Activations",
	"Human Impact",
	"Property Impact",
	"Business Impact",
	"Preparedness",
	"Internal Response",
	"External Response",
	"Risk Score",
}

// renderCSV writes one row per scored hazard, ranked by score. The output
// starts with a UTF-8 BOM so spreadsheets detect the encoding.
func renderCSV(w io.Writer, doc *Document) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, h := range doc.Results.HazardsWithScores {
		row := []string{
			strconv.Itoa(h.ID),
			h.Name,
			types.ProbabilityLabel(h.Probability),
			strconv.Itoa(h.Alerts.Int()),
			strconv.Itoa(h.Activations.Int()),
			types.ImpactLabel(h.HumanImpact),
			types.ImpactLabel(h.PropertyImpact),
			types.ImpactLabel(h.BusinessImpact),
			types.ResponseLabel(h.Preparedness),
			types.ResponseLabel(h.InternalResponse),
			types.ResponseLabel(h.ExternalResponse),
			strconv.Itoa(h.Score),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
