package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/s-ajensen/bb/internal/config"
	"github.com/s-ajensen/bb/internal/errors"
)

// defaultLogViewer follows the log as the instance appends to it.
var defaultLogViewer = []string{"less", "+F"}

// logCmd views a target's log file.
var logCmd = &cobra.Command{
	Use:   "log TARGET [COMMAND...]",
	Short: "View a target's log file",
	Long: `Open the log file of the named display target with a viewer command.

The log file receives everything the running instance logs: monitor
failures, trigger warnings, alert transitions. The default viewer is
'less +F', which follows the file live.

Examples:
  bb log terminal
  bb log xtitle tail -n 50
  bb log tmux grep ERROR`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return logCommand(args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}

// logCommand resolves the target's log file and hands it to the viewer.
func logCommand(targetName string, viewer []string) error {
	targets, err := config.LoadTargets("")
	if err != nil {
		return err
	}
	target, err := targets.Lookup(targetName)
	if err != nil {
		return err
	}

	if _, err := os.Stat(target.LogFile); os.IsNotExist(err) {
		return errors.New(errors.ErrExec,
			fmt.Sprintf("No log file for target '%s' yet", targetName),
			fmt.Sprintf("Start an instance first: bb run %s", targetName))
	}

	if len(viewer) == 0 {
		viewer = defaultLogViewer
	}

	muted := lipgloss.NewStyle().Faint(true)
	fmt.Println(muted.Render(target.LogFile))

	argv := append(append([]string{}, viewer...), target.LogFile)
	view := exec.Command(argv[0], argv[1:]...)
	view.Stdin = os.Stdin
	view.Stdout = os.Stdout
	view.Stderr = os.Stderr

	if err := view.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Viewer '%s' failed", argv[0]),
			"Check the viewer command exists, or pass another one.")
	}
	return nil
}
