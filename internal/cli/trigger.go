package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s-ajensen/bb/internal/config"
	"github.com/s-ajensen/bb/internal/trigger"
)

// triggerCmd wakes monitors in running instances.
var triggerCmd = &cobra.Command{
	Use:   "trigger MONITOR...",
	Short: "Request an immediate refresh of monitors",
	Long: `Create trigger markers for the named monitors in every configured
target's watch directory. A running instance picks each marker up within
its poll interval (~200ms) and recomputes the monitor immediately.

Only computed monitors support triggering; a running instance logs a
warning for anything else.

Examples:
  bb trigger volume
  bb trigger volume battery`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return triggerCommand(args)
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}

// triggerCommand validates the monitor names against the config, then
// drops markers for every configured target.
func triggerCommand(names []string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Unknown names are a usage error, caught before any marker lands.
	if _, err := config.Select(cfg, names); err != nil {
		return err
	}

	targets, err := config.LoadTargets("")
	if err != nil {
		return err
	}

	for _, name := range targets.Names() {
		target := targets[name]
		if err := trigger.CreateMarkers(target.WatchDir, names); err != nil {
			return err
		}
	}

	fmt.Printf("Triggered %d monitor(s) for %d target(s).\n", len(names), len(targets))
	return nil
}
