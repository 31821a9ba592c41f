package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/Navarropy/Polypropylene-Price-Scraper/internal/errors"
)

var flagRunSkipScan bool

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: scan, normalize, diagrams, forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(a)
		},
	}
	cmd.Flags().BoolVar(&flagRunSkipScan, "skip-scan", false, "reuse existing scan output instead of opening the browser")
	return cmd
}

func runPipeline(a *app) error {
	if !flagRunSkipScan {
		if err := runScan(a); err != nil {
			// An empty chart leaves nothing new to normalize, but earlier
			// scans may still be on disk.
			if !errors.Is(err, apperrors.ErrNoData) {
				return err
			}
			fmt.Println("Scan found no data points, continuing with existing files")
		}
	}

	if err := runNormalize(a); err != nil {
		return err
	}

	// The two analysis stages read the same normalized files and write to
	// separate directories.
	g, _ := errgroup.WithContext(a.ctx)
	g.Go(func() error { return runMRA(a) })
	g.Go(func() error { return runForecast(a) })
	return g.Wait()
}
