package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
)

const dateLayout = "2006-01-02 15:04 MST"

func renderMarkdown(w io.Writer, doc *Document) error {
	var b bytes.Buffer
	stats := doc.Statistics

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(doc.title()))
	if doc.Name != "" {
		fmt.Fprintf(&b, "**Assessment:** %s\n\n", escapeMarkdown(doc.Name))
	}
	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "**Generated on:** %s\n\n", doc.GeneratedAt.Format(dateLayout))
	}

	fmt.Fprintf(&b, "## Assessment Summary\n\n")
	fmt.Fprintf(&b, "- Total Hazards Assessed: %d\n", stats.AssessedCount)
	fmt.Fprintf(&b, "- Average Risk Score: %.1f\n", stats.AverageScore)
	fmt.Fprintf(&b, "- High-Risk Hazards (>= %d): %d (%.1f%%)\n\n",
		model.HighRiskThreshold, stats.HighRiskCount, stats.HighRiskPercentage)

	fmt.Fprintf(&b, "## Overall Preparedness\n\n%s\n\n", doc.Results.OverallPreparedness)

	fmt.Fprintf(&b, "## Top Risks\n\n")
	if len(doc.Results.TopRisks) == 0 {
		fmt.Fprintf(&b, "No hazards with a non-zero risk score.\n\n")
	} else {
		for i, r := range doc.Results.TopRisks {
			fmt.Fprintf(&b, "%d. %s (Risk Score: %d)\n", i+1, escapeMarkdown(r.Name), r.Score)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Detailed Assessment Data\n\n")
	fmt.Fprintf(&b, "| Hazard | Category | Probability | Alerts | Activations | Human Impact | Property Impact | Business Impact | Preparedness | Internal Response | External Response | Risk Score |\n")
	fmt.Fprintf(&b, "|---|---|---|---:|---:|---|---|---|---|---|---|---:|\n")
	for _, h := range doc.Results.HazardsWithScores {
		score := fmt.Sprintf("%d", h.Score)
		if model.IsHighRisk(h.Score) {
			score = "**" + score + "**"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			escapeMarkdown(h.Name),
			categoryLabel(h.Category),
			types.ProbabilityLabel(h.Probability),
			h.Alerts.Int(),
			h.Activations.Int(),
			types.ImpactLabel(h.HumanImpact),
			types.ImpactLabel(h.PropertyImpact),
			types.ImpactLabel(h.BusinessImpact),
			types.ResponseLabel(h.Preparedness),
			types.ResponseLabel(h.InternalResponse),
			types.ResponseLabel(h.ExternalResponse),
			score,
		)
	}

	_, err := w.Write(b.Bytes())
	return err
}

func categoryLabel(c types.HazardCategory) string {
	if c == "" {
		return "-"
	}
	return c.Label()
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
