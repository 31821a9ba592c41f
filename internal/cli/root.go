// Package cli wires the pipeline stages into the polyscan command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/config"
	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/infrastructure"
)

// app carries the state every subcommand needs after setup.
type app struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	ctx    context.Context
}

var (
	flagBaseDir  string
	flagHeadful  bool
	flagLogLevel string
)

// NewRootCmd builds the polyscan command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "polyscan",
		Short: "Scan, normalize and analyze polypropylene price series",
		Long: `polyscan sweeps an interactive price chart with a virtual cursor,
collects the tooltip values into a CSV, and runs the downstream stages:
spreadsheet normalization, wavelet multiresolution diagrams and a seasonal
price forecast.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			infrastructure.CloseLogFile()
		},
	}

	root.PersistentFlags().StringVar(&flagBaseDir, "base-dir", ".", "base directory for pipeline outputs")
	root.PersistentFlags().BoolVar(&flagHeadful, "headful", false, "show the browser window")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override configured log level (debug|info|warn|error)")

	root.AddCommand(
		newScanCmd(a),
		newNormalizeCmd(a),
		newMRACmd(a),
		newForecastCmd(a),
		newRunCmd(a),
	)
	return root
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	// A local .env is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagHeadful {
		cfg.Scraper.Headless = false
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	paths := config.NewPaths(flagBaseDir, cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}
	cfg.Logging.FilePath = paths.GetLogPath("polyscan.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := infrastructure.WithTraceID(cmd.Context(), uuid.NewString())
	a.cfg = cfg
	a.paths = paths
	a.logger = logger
	a.ctx = ctx

	logger.InfoContext(ctx, "polyscan starting",
		slog.String("command", cmd.Name()),
		slog.String("base_dir", paths.BaseDir))
	return nil
}
