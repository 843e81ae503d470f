package report

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/domain/types"
	"github.com/xuri/excelize/v2"
)

const (
	// XLSXDataSheet holds one row per scored hazard
	XLSXDataSheet = "HVA Assessment Data"
	// XLSXSummarySheet holds the top risks and assessment statistics
	XLSXSummarySheet = "Summary"

	xlsxDateLayout = "2006-01-02"

	xlsxAccent      = "3B82F6"
	xlsxStripe      = "F8FAFC"
	xlsxGrid        = "E5E7EB"
	xlsxHighRiskFg  = "DC2626"
	xlsxHighRiskBg  = "FEE2E2"
	xlsxHeaderWhite = "FFFFFF"
)

var xlsxDataWidths = []float64{5, 25, 12, 15, 18, 15, 16, 16, 15, 17, 17, 12}

type xlsxStyles struct {
	header      int
	plain       int
	striped     int
	plainName   int
	stripedName int
	highRisk    int
	title       int
}

// renderXLSX writes a workbook with the ranked hazard table and a summary
// sheet. The data header row is frozen and high-risk scores are highlighted.
func renderXLSX(w io.Writer, doc *Document) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = goerr.Wrap(cerr, "failed to close workbook")
		}
	}()

	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName(f.GetSheetName(0), XLSXDataSheet); err != nil {
		return goerr.Wrap(err, "failed to name data sheet")
	}
	if err := writeXLSXData(f, styles, doc); err != nil {
		return err
	}

	if _, err := f.NewSheet(XLSXSummarySheet); err != nil {
		return goerr.Wrap(err, "failed to add summary sheet")
	}
	if err := writeXLSXSummary(f, styles, doc); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

func newXLSXStyles(f *excelize.File) (*xlsxStyles, error) {
	border := func(color string) []excelize.Border {
		return []excelize.Border{
			{Type: "left", Color: color, Style: 1},
			{Type: "top", Color: color, Style: 1},
			{Type: "right", Color: color, Style: 1},
			{Type: "bottom", Color: color, Style: 1},
		}
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	cell := func(bg, horizontal string) *excelize.Style {
		return &excelize.Style{
			Fill:      fill(bg),
			Border:    border(xlsxGrid),
			Alignment: &excelize.Alignment{Horizontal: horizontal, Vertical: "center"},
		}
	}

	s := &xlsxStyles{}
	defs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: xlsxHeaderWhite},
			Fill:      fill(xlsxAccent),
			Border:    border("000000"),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.plain, cell(xlsxHeaderWhite, "center")},
		{&s.striped, cell(xlsxStripe, "center")},
		{&s.plainName, cell(xlsxHeaderWhite, "left")},
		{&s.stripedName, cell(xlsxStripe, "left")},
		{&s.highRisk, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: xlsxHighRiskFg},
			Fill:      fill(xlsxHighRiskBg),
			Border:    border(xlsxGrid),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		}},
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: xlsxAccent}}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create workbook style")
		}
		*d.dst = id
	}
	return s, nil
}

func writeXLSXData(f *excelize.File, s *xlsxStyles, doc *Document) error {
	sheet := XLSXDataSheet

	header := make([]any, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return goerr.Wrap(err, "failed to write header row")
	}
	if err := f.SetCellStyle(sheet, "A1", "L1", s.header); err != nil {
		return goerr.Wrap(err, "failed to style header row")
	}

	for i, width := range xlsxDataWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return goerr.Wrap(err, "invalid column", goerr.V("index", i))
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return goerr.Wrap(err, "failed to set column width", goerr.V("column", col))
		}
	}

	for i, h := range doc.Results.HazardsWithScores {
		row := i + 2
		values := []any{
			h.ID,
			h.Name,
			types.ProbabilityLabel(h.Probability),
			h.Alerts.Int(),
			h.Activations.Int(),
			types.ImpactLabel(h.HumanImpact),
			types.ImpactLabel(h.PropertyImpact),
			types.ImpactLabel(h.BusinessImpact),
			types.ResponseLabel(h.Preparedness),
			types.ResponseLabel(h.InternalResponse),
			types.ResponseLabel(h.ExternalResponse),
			h.Score,
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetSheetRow(sheet, first, &values); err != nil {
			return goerr.Wrap(err, "failed to write hazard row", goerr.V("hazard", h.Name))
		}

		base, name := s.plain, s.plainName
		if row%2 == 1 {
			base, name = s.striped, s.stripedName
		}
		if err := f.SetCellStyle(sheet, first, last, base); err != nil {
			return goerr.Wrap(err, "failed to style hazard row", goerr.V("row", row))
		}
		nameCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(sheet, nameCell, nameCell, name); err != nil {
			return goerr.Wrap(err, "failed to style hazard name", goerr.V("row", row))
		}
		if model.IsHighRisk(h.Score) {
			if err := f.SetCellStyle(sheet, last, last, s.highRisk); err != nil {
				return goerr.Wrap(err, "failed to style risk score", goerr.V("row", row))
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return goerr.Wrap(err, "failed to freeze header row")
	}
	return nil
}

func writeXLSXSummary(f *excelize.File, s *xlsxStyles, doc *Document) error {
	sheet := XLSXSummarySheet
	stats := doc.Statistics

	rows := [][]any{
		{doc.title() + " Summary"},
		{},
		{"Assessment:", doc.Name},
		{"Generated Date:", doc.GeneratedAt.Format(xlsxDateLayout)},
		{"Overall Preparedness:", doc.Results.OverallPreparedness.String()},
		{},
		{"Top Risk Hazards:"},
		{"Rank", "Hazard Name", "Risk Score"},
	}
	rankHeader := len(rows)
	for i, r := range doc.Results.TopRisks {
		rows = append(rows, []any{i + 1, r.Name, r.Score})
	}
	rows = append(rows,
		[]any{},
		[]any{"Assessment Statistics:"},
		[]any{"Total Hazards Assessed:", stats.AssessedCount},
		[]any{"Average Risk Score:", roundTenth(stats.AverageScore)},
		[]any{"High-Risk Hazards (>=25):", stats.HighRiskCount},
	)

	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return goerr.Wrap(err, "failed to write summary row", goerr.V("row", i+1))
		}
	}

	for _, c := range []struct {
		col   string
		width float64
	}{{"A", 25}, {"B", 30}, {"C", 15}} {
		if err := f.SetColWidth(sheet, c.col, c.col, c.width); err != nil {
			return goerr.Wrap(err, "failed to set summary column width")
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "A1", s.title); err != nil {
		return goerr.Wrap(err, "failed to style summary title")
	}
	first, _ := excelize.CoordinatesToCellName(1, rankHeader)
	last, _ := excelize.CoordinatesToCellName(3, rankHeader)
	if err := f.SetCellStyle(sheet, first, last, s.header); err != nil {
		return goerr.Wrap(err, "failed to style top risk header")
	}
	return nil
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
