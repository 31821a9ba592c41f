package wavelet

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/config"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/normalize"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/series"
)

// GenerateAll renders one multiresolution plot per product found in the
// normalized CSVs under inDir. Existing plots are kept so reruns only fill
// gaps. Returns how many plots were written.
func GenerateAll(ctx context.Context, inDir, outDir string, maxLevel int, logger *slog.Logger) (int, error) {
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

				name := config.SanitizeFilename(fmt.Sprintf("%s_%s_mra.png", base, product))
				outPath := filepath.Join(outDir, name)
				if _, err := os.Stat(outPath); err == nil {
					logger.Debug("plot exists, skipping", slog.String("file", outPath))
					return nil
				}

				s, err := series.FromRecords(group)
				if err != nil {
					return err
				}
				s = s.ForwardFilled().Normalized()
				if s.Len() < len(db4Lo) {
					logger.Warn("series too short for analysis",
						slog.String("product", product),
						slog.Int("samples", s.Len()))
					return nil
				}

				res, err := MRA(s.Values, maxLevel)
				if err != nil {
					logger.Warn("analysis failed",
						slog.String("product", product),
						slog.String("error", err.Error()))
					return nil
				}

				if err := WritePlot(outPath, product, s.Times, s.Values, res); err != nil {
					return err
				}
				logger.Info("plot written",
					slog.String("file", outPath),
					slog.Int("levels", res.Levels))
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
