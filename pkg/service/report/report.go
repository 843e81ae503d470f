package report

import (
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/domain/model"
)

// ErrUnsupportedFormat is returned for an unknown report format
var ErrUnsupportedFormat = goerr.New("unsupported report format")

// DefaultTitle is the report title used when a Document has none
const DefaultTitle = "HVA Report"

// Format is a report output format
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
	FormatXLSX     Format = "xlsx"
)

// AllFormats returns every supported format
func AllFormats() []Format {
	return []Format{FormatCSV, FormatXLSX, FormatMarkdown, FormatPDF, FormatJSON}
}

// ParseFormat parses a format name. "md" is accepted for markdown and
// "excel" for xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", goerr.Wrap(ErrUnsupportedFormat, "unknown format", goerr.V("format", s))
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension of the format without a dot
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

func (f Format) String() string {
	return string(f)
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileName builds a download file name such as "main-campus-2026.pdf" from
// an assessment name
func FileName(name string, f Format) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if base == "" {
		base = "hva-report"
	}
	return base + "." + f.Extension()
}

// Document is the input of every renderer
type Document struct {
	Title       string
	Name        string
	GeneratedAt time.Time
	Results     *model.RiskResults
	Statistics  model.Statistics
}

// NewDocument builds a Document for results and derives its statistics
func NewDocument(name string, results *model.RiskResults, generatedAt time.Time) *Document {
	if results == nil {
		results = model.CalculateRiskScores(nil)
	}
	return &Document{
		Title:       DefaultTitle,
		Name:        name,
		GeneratedAt: generatedAt,
		Results:     results,
		Statistics:  model.Summarize(results),
	}
}

func (d *Document) title() string {
	if d.Title == "" {
		return DefaultTitle
	}
	return d.Title
}

// Render writes doc to w in the given format
func Render(w io.Writer, format Format, doc *Document) error {
	if doc == nil {
		return goerr.New("document is required")
	}
	if doc.Results == nil {
		doc = NewDocument(doc.Name, nil, doc.GeneratedAt)
	}

	var err error
	switch format {
	case FormatCSV:
		err = renderCSV(w, doc)
	case FormatMarkdown:
		err = renderMarkdown(w, doc)
	case FormatPDF:
		err = renderPDF(w, doc)
	case FormatJSON:
		err = renderJSON(w, doc)
	case FormatXLSX:
		err = renderXLSX(w, doc)
	default:
		return goerr.Wrap(ErrUnsupportedFormat, "cannot render", goerr.V("format", format))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to render report", goerr.V("format", format))
	}
	return nil
}
