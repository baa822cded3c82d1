package cmd

import (
	"fmt"
	"os"

	"github.com/brogergvhs/moviebox/internal/config"
	"github.com/brogergvhs/moviebox/internal/ui"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagEnvFile      string
)

var rootCmd = &cobra.Command{
	Use:           "moviebox",
	Short:         "Moviebox scraper API with an offline response cache",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(flagEnvFile); err != nil {
			return fmt.Errorf("load %s: %w", flagEnvFile, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file read before the config")
}

// loadConfig merges the active profile, the environment and opts, and
// returns a logger honoring the resulting debug flag.
func loadConfig(opts config.Options) (*config.Config, string, *ui.Logger, error) {
	opts.IgnoreConfig = flagIgnoreConfig
	opts.Debug = flagDebug

	cfg, used, err := config.LoadMerged(opts)
	if err != nil {
		return nil, "", nil, err
	}

	return cfg, used, ui.NewLogger(cfg.Debug), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
