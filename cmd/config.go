package cmd

import (
	"fmt"
	"os"

	"github.com/brogergvhs/moviebox/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective config, or manage config profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, _, err := loadConfig(config.Options{})
		if err != nil {
			return err
		}

		fmt.Printf("Loaded config from:\n  %s\n\n", used)
		cfg.Print(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
