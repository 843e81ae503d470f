package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
)

type rgb struct{ r, g, b int }

var (
	colorAccent   = rgb{59, 130, 246}
	colorText     = rgb{0, 0, 0}
	colorMuted    = rgb{100, 116, 139}
	colorPanel    = rgb{248, 250, 252}
	colorHighText = rgb{220, 38, 38}
	colorHighFill = rgb{254, 226, 226}
	colorWhite    = rgb{255, 255, 255}

	barColors = []rgb{
		{239, 68, 68},
		{245, 101, 101},
		{251, 146, 60},
		{252, 176, 64},
		{250, 204, 21},
		{163, 230, 53},
		{34, 197, 94},
		{20, 184, 166},
		{59, 130, 246},
		{147, 51, 234},
	}

	resourcePriorities = []string{
		"Emergency response equipment and supplies",
		"Staff training programs for high-risk scenarios",
		"Communication system upgrades",
	}
)

const (
	fontFamily        = "Helvetica"
	maxRecommendation = 3
	maxChartLabel     = 12
)

type pdfColumn struct {
	title string
	width float64
	align string
	value func(h model.ScoredHazard) string
}

var pdfColumns = []pdfColumn{
	{"Hazard", 45, "L", func(h model.ScoredHazard) string { return h.Name }},
	{"Probability", 20, "C", func(h model.ScoredHazard) string { return types.ProbabilityLabel(h.Probability) }},
	{"Alerts", 16, "C", func(h model.ScoredHazard) string { return strconv.Itoa(h.Alerts.Int()) }},
	{"Activations", 20, "C", func(h model.ScoredHazard) string { return strconv.Itoa(h.Activations.Int()) }},
	{"Human Impact", 20, "C", func(h model.ScoredHazard) string { return types.ImpactLabel(h.HumanImpact) }},
	{"Property Impact", 22, "C", func(h model.ScoredHazard) string { return types.ImpactLabel(h.PropertyImpact) }},
	{"Business Impact", 22, "C", func(h model.ScoredHazard) string { return types.ImpactLabel(h.BusinessImpact) }},
	{"Preparedness", 24, "C", func(h model.ScoredHazard) string { return types.ResponseLabel(h.Preparedness) }},
	{"Internal Response", 24, "C", func(h model.ScoredHazard) string { return types.ResponseLabel(h.InternalResponse) }},
	{"External Response", 24, "C", func(h model.ScoredHazard) string { return types.ResponseLabel(h.ExternalResponse) }},
	{"Risk Score", 18, "C", func(h model.ScoredHazard) string { return strconv.Itoa(h.Score) }},
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *pdfWriter) textColor(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *pdfWriter) fillColor(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }

// centered writes a full-width centered line at the current position
func (p *pdfWriter) centered(text string, size float64, style string, c rgb, h float64) {
	p.pdf.SetFont(fontFamily, style, size)
	p.textColor(c)
	p.pdf.CellFormat(0, h, p.tr(text), "", 1, "C", false, 0, "")
}

func (p *pdfWriter) heading(text string) {
	p.pdf.SetFont(fontFamily, "B", 16)
	p.textColor(colorAccent)
	p.pdf.CellFormat(0, 10, p.tr(text), "", 1, "L", false, 0, "")
	p.pdf.Ln(4)
}

func renderPDF(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(doc.title(), true)
	pdf.SetCreator("hva", false)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt)
		pdf.SetModificationDate(doc.GeneratedAt)
	}

	p := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "", 8)
		p.textColor(colorMuted)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	p.coverPage(doc)
	p.chartPage(doc)
	p.detailPage(doc)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func (p *pdfWriter) coverPage(doc *Document) {
	pdf := p.pdf
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	pdf.SetY(50)
	p.centered(strings.ToUpper(doc.title()), 24, "B", colorAccent, 12)
	p.centered("Hazard Vulnerability Assessment", 16, "", colorText, 10)
	if doc.Name != "" {
		p.centered(doc.Name, 14, "B", colorText, 10)
	}
	if !doc.GeneratedAt.IsZero() {
		p.centered("Generated on: "+doc.GeneratedAt.Format(dateLayout), 11, "", colorMuted, 8)
	}

	stats := doc.Statistics
	boxY := 120.0
	p.fillColor(colorPanel)
	pdf.Rect(20, boxY, pageW-40, 95, "F")

	pdf.SetXY(20, boxY+8)
	p.centered("Assessment Summary", 16, "B", colorAccent, 10)

	pdf.SetFont(fontFamily, "", 12)
	p.textColor(colorText)
	lines := []string{
		fmt.Sprintf("Total Hazards Assessed: %d", stats.AssessedCount),
		fmt.Sprintf("Average Risk Score: %.1f", stats.AverageScore),
		fmt.Sprintf("High-Risk Hazards (>= %d): %d (%.1f%%)",
			model.HighRiskThreshold, stats.HighRiskCount, stats.HighRiskPercentage),
	}
	for _, line := range lines {
		pdf.SetX(40)
		pdf.CellFormat(0, 9, p.tr(line), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetX(40)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, "Overall Preparedness:", "", 1, "L", false, 0, "")
	pdf.SetX(40)
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(pageW-80, 6, p.tr(string(doc.Results.OverallPreparedness)), "", "L", false)
}

func (p *pdfWriter) chartPage(doc *Document) {
	pdf := p.pdf
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	p.heading(fmt.Sprintf("Top %d Risk Hazards", model.MaxTopRisks))

	top := doc.Results.TopRisks
	const (
		chartStartY = 50.0
		chartHeight = 120.0
	)

	if len(top) == 0 {
		pdf.SetFont(fontFamily, "", 12)
		p.textColor(colorText)
		pdf.CellFormat(0, 8, "No hazards with a non-zero risk score.", "", 1, "L", false, 0, "")
	} else {
		maxScore := 0
		for _, r := range top {
			maxScore = max(maxScore, r.Score)
		}

		chartWidth := pageW - 40
		barWidth := (chartWidth-20)/float64(model.MaxTopRisks) - 5
		for i, r := range top {
			barHeight := float64(r.Score) / float64(maxScore) * chartHeight
			x := 20 + float64(i)*(barWidth+5)
			y := chartStartY + chartHeight - barHeight

			p.fillColor(barColors[i%len(barColors)])
			pdf.Rect(x, y, barWidth, barHeight, "F")

			pdf.SetFont(fontFamily, "", 8)
			p.textColor(colorText)
			score := strconv.Itoa(r.Score)
			pdf.Text(x+(barWidth-pdf.GetStringWidth(score))/2, y-2, score)

			label := chartLabel(r.Name)
			labelX := x + barWidth/2
			labelY := chartStartY + chartHeight + 6
			pdf.TransformBegin()
			pdf.TransformRotate(-45, labelX, labelY)
			pdf.Text(labelX, labelY, p.tr(label))
			pdf.TransformEnd()
		}
	}

	pdf.SetY(200)
	p.heading("Recommendations")

	pdf.SetFont(fontFamily, "B", 12)
	p.textColor(colorText)
	pdf.CellFormat(0, 8, "Immediate Action Required:", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 12)
	for i, r := range top {
		if i == maxRecommendation {
			break
		}
		pdf.SetX(25)
		pdf.CellFormat(0, 8, p.tr(fmt.Sprintf("%d. Address %s (Risk Score: %d)", i+1, r.Name, r.Score)), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, "Resource Priorities:", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 12)
	for _, item := range resourcePriorities {
		pdf.SetX(25)
		pdf.CellFormat(0, 8, "- "+item, "", 1, "L", false, 0, "")
	}
}

func (p *pdfWriter) detailPage(doc *Document) {
	pdf := p.pdf
	pdf.SetMargins(10, 20, 10)
	pdf.AddPageFormat("L", pdf.GetPageSizeStr("A4"))
	p.heading("Detailed Assessment Data")
	p.tableHeader()

	const rowH = 6.0
	_, pageH := pdf.GetPageSize()
	for i, h := range doc.Results.HazardsWithScores {
		if pdf.GetY()+rowH > pageH-20 {
			pdf.AddPageFormat("L", pdf.GetPageSizeStr("A4"))
			p.tableHeader()
		}

		striped := i%2 == 1
		for j, col := range pdfColumns {
			last := j == len(pdfColumns)-1
			fill := striped
			p.fillColor(colorPanel)
			pdf.SetFont(fontFamily, "", 8)
			p.textColor(colorText)
			if last && model.IsHighRisk(h.Score) {
				fill = true
				p.fillColor(colorHighFill)
				pdf.SetFont(fontFamily, "B", 8)
				p.textColor(colorHighText)
			}
			ln := 0
			if last {
				ln = 1
			}
			pdf.CellFormat(col.width, rowH, p.tr(col.value(h)), "1", ln, col.align, fill, 0, "")
		}
	}
}

func (p *pdfWriter) tableHeader() {
	pdf := p.pdf
	pdf.SetFont(fontFamily, "B", 7)
	p.fillColor(colorAccent)
	p.textColor(colorWhite)
	for j, col := range pdfColumns {
		ln := 0
		if j == len(pdfColumns)-1 {
			ln = 1
		}
		pdf.CellFormat(col.width, 8, col.title, "1", ln, "C", true, 0, "")
	}
}

// chartLabel shortens a hazard name to maxChartLabel characters for the
// rotated bar chart axis
func chartLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= maxChartLabel {
		return name
	}
	return string(runes[:maxChartLabel]) + "..."
}
