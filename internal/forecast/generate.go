package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/config"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/exporter"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/normalize"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/series"
)

// GenerateAll fits a model per product found in the normalized CSVs under
// inDir and writes a projection chart plus a projection CSV per product
// into outDir. Returns how many products were forecast.
func GenerateAll(ctx context.Context, inDir, outDir string, cfg config.ForecastConfig, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := filepath.Glob(filepath.Join(inDir, "*_normalized.csv"))
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", inDir, err)
	}

	var written atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, path := range paths {
		records, err := normalize.ReadNormalized(path)
		if err != nil {
			logger.Warn("skipping file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			continue
		}
		base := strings.TrimSuffix(filepath.Base(path), "_normalized.csv")

		for product, group := range normalize.GroupByProduct(records) {
			product, group := product, group
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				s, err := series.FromRecords(group)
				if err != nil {
					return err
				}
				s = s.ForwardFilled()

				model, err := Fit(s.Values, Options{
					Alpha:        cfg.Alpha,
					Beta:         cfg.Beta,
					Gamma:        cfg.Gamma,
					SeasonLength: cfg.SeasonLength,
				})
				if err != nil {
					logger.Warn("model fit failed",
						slog.String("product", product),
						slog.String("error", err.Error()))
					return nil
				}

				projected := model.Forecast(cfg.Horizon)
				future := FutureTimes(s.Times, cfg.Horizon)

				stem := config.SanitizeFilename(fmt.Sprintf("%s_%s_forecast", base, product))
				plotPath := filepath.Join(outDir, stem+".png")
				if err := WritePlot(plotPath, product, s.Times, s.Values, future, projected); err != nil {
					return err
				}

				rows := make([][]string, 0, len(projected))
				for i, v := range projected {
					rows = append(rows, []string{
						future[i].Format("2006-01-02"),
						product,
						strconv.FormatFloat(v, 'f', 4, 64),
					})
				}
				csvPath := filepath.Join(outDir, stem+".csv")
				if err := exporter.WriteCSV(csvPath, exporter.WriteOptions{
					Headers: []string{"Date", "Product", "Forecast"},
					Records: rows,
				}); err != nil {
					return err
				}

				logger.Info("forecast written",
					slog.String("product", product),
					slog.String("plot", plotPath),
					slog.Bool("seasonal", model.Seasonal()))
				written.Add(1)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}
	return int(written.Load()), nil
}
