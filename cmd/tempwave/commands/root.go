package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tempwave/internal/config"
	"tempwave/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "tempwave",
	Short: "tempwave detects heatwaves and coldwaves in daily station temperatures",
	Long: `Reads a daily temperature table (one column per weather station), finds runs of days
at or beyond a threshold, and reports per-year statistics for every station:
total extreme days, number of waves, longest episode and days inside waves.

Without a subcommand tempwave serves the same analysis as MCP tools over stdio.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("logDir", cfg.LogDir).
			Msg("tempwave starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(newAnalyzeCmd(), newServeCmd(), newRunsCmd())
}
