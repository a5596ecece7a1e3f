package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s-ajensen/bb/internal/config"
)

var initForce bool

// initCmd creates a starter .bb.yaml configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter .bb.yaml config",
	Long: `Write a .bb.yaml file in the current directory with the built-in
monitor set: alert, volume, wifi, memory, load, battery, and clock.

Examples:
  bb init
  bb init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(config.ConfigFileName, initForce); err != nil {
			return err
		}
		fmt.Printf("Wrote %s - edit it, then start the bar with 'bb run terminal'.\n", config.ConfigFileName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
}
