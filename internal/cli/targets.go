package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/s-ajensen/bb/internal/config"
)

// targetsCmd lists the configured display targets.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List configured display targets",
	Long: `Display the targets bb can publish to, with their publisher kind,
watch directory, and log file.

Targets come from ~/.config/bb/targets.toml; without that file the
built-in terminal, xtitle, and tmux targets are available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return targetsCommand()
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func targetsCommand() error {
	targets, err := config.LoadTargets("")
	if err != nil {
		return err
	}

	bold := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Faint(true)

	for _, name := range targets.Names() {
		t := targets[name]
		fmt.Printf("%s  %s\n", bold.Render(name), muted.Render("("+t.Publisher+")"))
		fmt.Printf("  %s\n", muted.Render("watch: "+t.WatchDir))
		fmt.Printf("  %s\n", muted.Render("log:   "+t.LogFile))
	}

	return nil
}
