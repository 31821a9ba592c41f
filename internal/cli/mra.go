package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/wavelet"
)

func newMRACmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mra",
		Short: "Render wavelet multiresolution diagrams per product",
		Long: `Splits each normalized price series into a smooth component plus one
detail band per decomposition level and renders the stack as a single PNG.
Diagrams that already exist are kept, so reruns only fill gaps.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMRA(a)
		},
	}
}

func runMRA(a *app) error {
	count, err := wavelet.GenerateAll(a.ctx, a.paths.NormalizedDir, a.paths.DiagramsDir,
		a.cfg.Wavelet.MaxLevels, a.logger)
	if err != nil {
		return err
	}

	a.logger.InfoContext(a.ctx, "diagrams complete",
		slog.Int("plots", count),
		slog.String("output_dir", a.paths.DiagramsDir))
	fmt.Printf("Rendered %d diagrams into %s\n", count, a.paths.DiagramsDir)
	return nil
}
