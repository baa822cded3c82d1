package cmd

import (
	"fmt"

	"github.com/brogergvhs/moviebox/internal/config"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var configSwitchCmd = &cobra.Command{
	Use:   "switch [label]",
	Short: "Switch to a different configuration profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		var label string

		if len(args) == 1 {
			label = args[0]
		} else {
			list, err := config.ListConfigs()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no configs available")
			}

			cursor := 0
			items := make([]string, len(list))
			for i, c := range list {
				items[i] = c.Label
				if c.Active {
					items[i] += "  (active)"
					cursor = i
				}
			}

			prompt := promptui.Select{
				Label:     "Select config",
				Items:     items,
				CursorPos: cursor,
				Size:      min(len(items), 10),
			}

			idx, _, err := prompt.Run()
			if err != nil {
				return fmt.Errorf("selection cancelled")
			}

			label = list[idx].Label
		}

		if err := config.SwitchConfig(label); err != nil {
			return err
		}
		fmt.Println("Switched to:", label)

		cfg, _, err := config.LoadMerged(config.Options{})
		if err != nil {
			return fmt.Errorf("profile %q does not load: %w", label, err)
		}
		fmt.Printf("Upstream %s, listening on %s, cache %s\n", cfg.BaseURL, cfg.Listen, cfg.Cache.Version)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSwitchCmd)
}
