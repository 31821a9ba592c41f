package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/normalize"
)

var flagNormalizeIn string

func newNormalizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Melt raw spreadsheets into three-column CSVs",
		Long: `Reads every CSV/XLSX in the input directory, detects its layout
(date+value, product-per-row with weekly columns, or date-wide) and writes
one [Date, Product, Value] CSV per file. Files it cannot interpret are
skipped with a warning; legacy binary .xls workbooks must be converted to
.xlsx first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(a)
		},
	}
	cmd.Flags().StringVar(&flagNormalizeIn, "input", "", "input directory (defaults to the scan output directory)")
	return cmd
}

func runNormalize(a *app) error {
	inDir := flagNormalizeIn
	if inDir == "" {
		inDir = a.paths.DataDir
	}

	count, err := normalize.ProcessFolder(inDir, a.paths.NormalizedDir, a.logger)
	if err != nil {
		return err
	}

	a.logger.InfoContext(a.ctx, "normalization complete",
		slog.Int("files", count),
		slog.String("output_dir", a.paths.NormalizedDir))
	fmt.Printf("Normalized %d files into %s\n", count, a.paths.NormalizedDir)
	return nil
}
