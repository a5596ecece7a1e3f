package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/s-ajensen/bb/internal/alert"
	"github.com/s-ajensen/bb/internal/config"
	"github.com/s-ajensen/bb/internal/errors"
	"github.com/s-ajensen/bb/internal/logger"
	"github.com/s-ajensen/bb/internal/publish"
	"github.com/s-ajensen/bb/internal/sources"
	"github.com/s-ajensen/bb/internal/supervisor"
)

// runCmd starts the bar for a display target.
var runCmd = &cobra.Command{
	Use:   "run TARGET [MONITOR...]",
	Short: "Start the bar for a display target",
	Long: `Start the bar, publishing to the named display target.

Runs until killed. Any other running instance for the same target is
terminated first, so the newest invocation always wins.

Naming monitors restricts the run to exactly those monitors, regardless
of their enabled flag in the config.

Examples:
  bb run terminal
  bb run xtitle
  bb run terminal battery volume`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCommand loads and validates configuration, builds the monitor set,
// and hands off to the supervisor. This is the main workflow tying all
// subsystems together.
func runCommand(targetName string, names []string) error {
	targets, err := config.LoadTargets("")
	if err != nil {
		return err
	}
	target, err := targets.Lookup(targetName)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	specs, err := config.Select(cfg, names)
	if err != nil {
		return err
	}

	log, err := logger.NewFileLogger(target.LogFile, "[bb]")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't open the log file for target '"+targetName+"'",
			"Check the log_file path in targets.toml.")
	}
	defer log.Close()

	engine := alert.New(0, 0)
	registry := sources.NewRegistry(engine, engine.Body())

	monitors, err := supervisor.BuildMonitors(specs, registry, log)
	if err != nil {
		return err
	}

	publisher, err := publish.New(target.Publisher)
	if err != nil {
		return err
	}

	order := make([]string, 0, len(specs))
	for _, s := range specs {
		order = append(order, s.ID)
	}

	sup := supervisor.New(supervisor.Options{
		Target:    targetName,
		WatchDir:  target.WatchDir,
		Monitors:  monitors,
		Order:     order,
		Publisher: publisher,
		Log:       log,
	})

	log.Info("starting bar for target %s with %d monitors", targetName, len(monitors))
	return sup.Run(context.Background())
}
