package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s-ajensen/bb/internal/errors"
)

// Global flags
var cfgFlag string

// rootCmd is the base command all subcommands hang off of.
var rootCmd = &cobra.Command{
	Use:   "bb",
	Short: "Aggregate monitors into a live status line",
	Long: `bb runs a set of monitors in parallel and republishes their latest
fragments as a single status line whenever any of them changes.

Monitors are declared in .bb.yaml; display targets (terminal, X root
window title, tmux status line) are declared in targets.toml.

Examples:
  bb run terminal
  bb run xtitle battery volume
  bb trigger volume
  bb log terminal`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFlag, "config", "", "config file (default: search for .bb.yaml)")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFlag
}

// Execute runs the root command and exits with the mapped exit code:
// 0 success, 1 runtime fatal, 2 usage or configuration error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var bbErr *errors.Error
		if stderrors.As(err, &bbErr) {
			os.Exit(errors.ExitCode(err))
		}
		// Anything unstructured at this level is a usage problem
		// cobra reported (bad args, unknown command).
		os.Exit(2)
	}
}
