// Package publish contains the display backends the assembled bar line
// is delivered to. The core never falls back between backends: a failed
// publish is fatal to the process.
package publish

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/muesli/termenv"

	"github.com/s-ajensen/bb/internal/errors"
)

// Publisher delivers one assembled line to a display target.
type Publisher interface {
	Publish(line string) error
}

// Publisher kinds accepted in the targets registry.
const (
	KindTerminal = "terminal"
	KindXTitle   = "xtitle"
	KindTmux     = "tmux"
)

// New constructs the publisher for a target kind. Unknown kinds are a
// configuration error.
func New(kind string) (Publisher, error) {
	switch kind {
	case KindTerminal:
		return NewTerminal(os.Stdout), nil
	case KindXTitle:
		return NewXTitle(), nil
	case KindTmux:
		return NewTmux(), nil
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown publisher kind '%s'", kind),
			"Use 'terminal', 'xtitle', or 'tmux' in targets.toml.")
	}
}

// Terminal rewrites a single terminal line in place.
type Terminal struct {
	out *termenv.Output
}

// NewTerminal creates a terminal publisher writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: termenv.NewOutput(w)}
}

// Publish clears the current line and writes the bar over it.
func (t *Terminal) Publish(line string) error {
	t.out.ClearLine()
	_, err := t.out.WriteString("\r" + line)
	return err
}

// CommandPublisher delivers the line by invoking an external command,
// e.g. xsetroot or tmux. The command runs once per publish.
type CommandPublisher struct {
	name string
	args func(line string) []string
}

// NewXTitle publishes to the X root window title via xsetroot.
func NewXTitle() *CommandPublisher {
	return &CommandPublisher{
		name: "xsetroot",
		args: func(line string) []string { return []string{"-name", line} },
	}
}

// NewTmux publishes to the tmux status line.
func NewTmux() *CommandPublisher {
	return &CommandPublisher{
		name: "tmux",
		args: func(line string) []string { return []string{"set", "-g", "status-left", line} },
	}
}

// NewCommand creates a publisher for an arbitrary command; args receives
// the line and returns the full argument list.
func NewCommand(name string, args func(line string) []string) *CommandPublisher {
	return &CommandPublisher{name: name, args: args}
}

// Publish runs the command, treating any failure (including a missing
// binary) as a publish error.
func (p *CommandPublisher) Publish(line string) error {
	cmd := exec.Command(p.name, p.args(line)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := bytes.TrimSpace(out)
		if len(trimmed) > 0 {
			return fmt.Errorf("%s: %v: %s", p.name, err, trimmed)
		}
		return fmt.Errorf("%s: %v", p.name, err)
	}
	return nil
}
