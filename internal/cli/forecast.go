package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/forecast"
)

var flagForecastHorizon int

func newForecastCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project each price series forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(a)
		},
	}
	cmd.Flags().IntVar(&flagForecastHorizon, "horizon", 0, "forecast steps (default from config)")
	return cmd
}

func runForecast(a *app) error {
	cfg := a.cfg.Forecast
	if flagForecastHorizon > 0 {
		cfg.Horizon = flagForecastHorizon
	}

	count, err := forecast.GenerateAll(a.ctx, a.paths.NormalizedDir, a.paths.ForecastsDir, cfg, a.logger)
	if err != nil {
		return err
	}

	a.logger.InfoContext(a.ctx, "forecasts complete",
		slog.Int("products", count),
		slog.String("output_dir", a.paths.ForecastsDir))
	fmt.Printf("Forecast %d products into %s\n", count, a.paths.ForecastsDir)
	return nil
}
