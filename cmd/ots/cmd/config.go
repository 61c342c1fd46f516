package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSPICE/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change persisted defaults",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config file: %s\n", configPath)
		fmt.Printf("  strategy:      %s\n", appConfig.Strategy)
		fmt.Printf("  grid_spacing:  %d\n", appConfig.GridSpacing)
		fmt.Printf("  hit_tolerance: %d\n", appConfig.HitTolerance)
		fmt.Printf("  top_level:     %t\n", appConfig.TopLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long:  "Change one setting and save the config file. Keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appConfig.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := appConfig.Save(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
