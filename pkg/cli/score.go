package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hva/pkg/cli/config"
	"github.com/secmon-lab/hva/pkg/domain/model"
	"github.com/secmon-lab/hva/pkg/repository/memory"
	"github.com/secmon-lab/hva/pkg/service/report"
	"github.com/secmon-lab/hva/pkg/usecase"
	"github.com/secmon-lab/hva/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdScore() *cli.Command {
	var input string
	var name string
	var outputDir string
	var formats []string
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Ratings JSON file, a list of hazards or {\"hazards\": [...]} (\"-\" for stdin)",
			Value:       "-",
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Assessment name used in reports",
			Value:       "Hazard Vulnerability Assessment",
			Destination: &name,
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"d"},
			Usage:       "Directory to write report files to",
			Value:       ".",
			Destination: &outputDir,
		},
		&cli.StringSliceFlag{
			Name:        "format",
			Usage:       "Report formats to write [csv|xlsx|markdown|pdf|json] (repeatable)",
			Destination: &formats,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:      "score",
		Usage:     "Score a ratings file and print the risk ranking",
		ArgsUsage: " ",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			parsed := make([]report.Format, 0, len(formats))
			seen := make(map[report.Format]bool)
			for _, f := range formats {
				format, err := report.ParseFormat(f)
				if err != nil {
					return err
				}
				if !seen[format] {
					seen[format] = true
					parsed = append(parsed, format)
				}
			}

			ratings, err := readRatings(c.Root().Reader, input)
			if err != nil {
				return err
			}

			catalog, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load hazard catalog")
			}

			uc := usecase.New(memory.New(), usecase.WithCatalog(catalog))
			results := uc.Assessment.Calculate(ratings)
			doc := report.NewDocument(name, results, time.Now())

			printResults(c.Root().Writer, doc)

			paths, err := writeReports(ctx, outputDir, doc, parsed)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(c.Root().Writer, "Report written: %s\n", p)
			}
			return nil
		},
	}
}

// readRatings decodes either a bare list of hazard ratings or an object
// with a "hazards" list
func readRatings(stdin io.Reader, input string) ([]model.HazardRating, error) {
	var data []byte
	var err error
	if input == "-" || input == "" {
		data, err = io.ReadAll(stdin)
	} else {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read ratings", goerr.V("input", input))
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var ratings []model.HazardRating
		if err := json.Unmarshal(trimmed, &ratings); err != nil {
			return nil, goerr.Wrap(err, "failed to parse ratings", goerr.V("input", input))
		}
		return ratings, nil
	}

	var wrapped struct {
		Hazards []model.HazardRating `json:"hazards"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, goerr.Wrap(err, "failed to parse ratings", goerr.V("input", input))
	}
	return wrapped.Hazards, nil
}

func printResults(w io.Writer, doc *report.Document) {
	bold := color.New(color.Bold)
	high := color.New(color.FgRed, color.Bold)
	stats := doc.Statistics

	bold.Fprintf(w, "%s\n", doc.Name)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len(doc.Name)))

	bold.Fprintf(w, "Overall preparedness: ")
	verdictColor(doc.Results.OverallPreparedness.Level()).Fprintf(w, "%s\n\n", doc.Results.OverallPreparedness)

	fmt.Fprintf(w, "Hazards assessed:   %d\n", stats.AssessedCount)
	fmt.Fprintf(w, "Average risk score: %.1f\n", stats.AverageScore)
	fmt.Fprintf(w, "High-risk hazards:  %d (%.1f%%)\n\n", stats.HighRiskCount, stats.HighRiskPercentage)

	bold.Fprintf(w, "Top risks\n")
	if len(doc.Results.TopRisks) == 0 {
		fmt.Fprintf(w, "  (none)\n")
		return
	}
	for i, r := range doc.Results.TopRisks {
		line := fmt.Sprintf("  %2d. %-28s %4d\n", i+1, r.Name, r.Score)
		if model.IsHighRisk(r.Score) {
			high.Fprint(w, line)
		} else {
			fmt.Fprint(w, line)
		}
	}
}

func verdictColor(level string) *color.Color {
	switch level {
	case "Good":
		return color.New(color.FgGreen, color.Bold)
	case "Fair":
		return color.New(color.FgYellow, color.Bold)
	case "Poor":
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

// writeReports renders every format into its own file concurrently and
// returns the written paths in format order
func writeReports(ctx context.Context, dir string, doc *report.Document, formats []report.Format) ([]string, error) {
	if len(formats) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}

	paths := make([]string, len(formats))
	eg, ctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		path := filepath.Join(dir, report.FileName(doc.Name, format))
		paths[i] = path

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := report.Render(&buf, format, doc); err != nil {
				return err
			}

			if err := writeFile(path, buf.Bytes()); err != nil {
				return err
			}

			logging.From(ctx).Debug("report written", "format", format, "path", path)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// writeFile creates path with data. A failed Close is returned because it may
// be the first place a write error is reported.
func writeFile(path string, data []byte) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return goerr.Wrap(err, "failed to create report file", goerr.V("path", path))
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write report file", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close report file", goerr.V("path", path))
	}
	return nil
}
