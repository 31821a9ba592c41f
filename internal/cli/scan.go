package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/browser"
	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/exporter"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/normalize"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/scanner"
)

var (
	flagScanFrom   string
	flagScanTo     string
	flagScanOutput string
	flagScanFormat string
)

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Sweep the price chart and export the tooltip series",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(a)
		},
	}
	cmd.Flags().StringVar(&flagScanFrom, "from", "", "drop points before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagScanTo, "to", "", "drop points after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagScanOutput, "output", "", "output file name (default from config)")
	cmd.Flags().StringVar(&flagScanFormat, "format", "", "output format: csv or json (default from config)")
	return cmd
}

func runScan(a *app) error {
	points, err := scanChart(a)
	if err != nil {
		return err
	}

	points, err = filterPoints(points, flagScanFrom, flagScanTo)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		a.logger.ErrorContext(a.ctx, "scan produced no data points")
		return apperrors.New(apperrors.CodeNoData, "scan produced no data points")
	}

	format := a.cfg.Output.Format
	if flagScanFormat != "" {
		format = flagScanFormat
	}
	name := a.cfg.Output.File
	if flagScanOutput != "" {
		name = flagScanOutput
	}
	outPath := a.paths.GetDataPath(withFormatExt(name, format))

	switch format {
	case "json":
		err = exporter.WriteScanJSON(outPath, points)
	case "csv":
		err = exporter.WriteScanCSV(outPath, points)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return err
	}

	a.logger.InfoContext(a.ctx, "scan complete",
		slog.Int("points", len(points)),
		slog.String("output", outPath))
	fmt.Printf("Scanned %d points into %s\n", len(points), outPath)
	return nil
}

func scanChart(a *app) ([]scanner.Point, error) {
	opts := browser.Options{
		Headless:        a.cfg.Scraper.Headless,
		FrameSelector:   a.cfg.Scraper.FrameSelector,
		ChartSelector:   a.cfg.Scraper.ChartSelector,
		TooltipSelector: a.cfg.Scraper.TooltipSelector,
		NavTimeout:      a.cfg.Scraper.NavTimeout,
		SampleTimeout:   a.cfg.Scraper.SampleTimeout,
		ShowMarker:      a.cfg.Scraper.ShowMarker,
	}
	b, cleanup, err := browser.Open(a.ctx, opts, a.logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	box, err := b.Initialize(a.cfg.Scraper.URL)
	if err != nil {
		return nil, err
	}

	sc := scanner.New(b, scanner.Settings{
		EdgeMargin: a.cfg.Scraper.EdgeMargin,
		ScanRow:    a.cfg.Scraper.ScanRow,
		MinStep:    a.cfg.Scraper.MinStep,
		MaxStep:    a.cfg.Scraper.MaxStep,
		StepGrowth: a.cfg.Scraper.StepGrowth,
	}, a.cfg.Scraper.SamplesPerSec, a.logger)

	return sc.Scan(a.ctx, box)
}

// filterPoints keeps points inside [from, to]. Points whose date label does
// not parse are kept; the raw labels pass through to the output.
func filterPoints(points []scanner.Point, fromStr, toStr string) ([]scanner.Point, error) {
	if fromStr == "" && toStr == "" {
		return points, nil
	}
	parseBound := func(s string) (time.Time, error) {
		if s == "" {
			return time.Time{}, nil
		}
		return time.Parse("2006-01-02", s)
	}
	from, err := parseBound(fromStr)
	if err != nil {
		return nil, fmt.Errorf("invalid --from date: %w", err)
	}
	to, err := parseBound(toStr)
	if err != nil {
		return nil, fmt.Errorf("invalid --to date: %w", err)
	}

	var out []scanner.Point
	for _, p := range points {
		date, err := normalize.ParseDate(p.Date)
		if err == nil {
			if !from.IsZero() && date.Before(from) {
				continue
			}
			if !to.IsZero() && date.After(to) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// withFormatExt aligns the file extension with the chosen format.
func withFormatExt(name, format string) string {
	want := "." + format
	if ext := filepath.Ext(name); ext != "" {
		return strings.TrimSuffix(name, ext) + want
	}
	return name + want
}
