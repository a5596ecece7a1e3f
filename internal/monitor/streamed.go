package monitor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/s-ajensen/bb/internal/errors"
	"github.com/s-ajensen/bb/internal/logger"
)

// Streamed follows a long-running child process, turning each non-empty
// stdout line into a labeled result. Stderr lines are logged, not
// published. When the process exits for any reason the EXIT sentinel is
// pushed once and the loop ends permanently.
type Streamed struct {
	id      string
	label   string
	command string
	log     logger.Logger
}

// NewStreamed validates and constructs a Streamed monitor.
func NewStreamed(id, label, command string, log logger.Logger) (*Streamed, error) {
	if id == "" {
		return nil, errors.New(errors.ErrMonitor,
			"Streamed monitor needs an id",
			"Give every monitor a unique id in the config.")
	}
	if command == "" {
		return nil, errors.New(errors.ErrMonitor,
			fmt.Sprintf("Monitor '%s' has no command", id),
			"A streamed monitor needs a command line to run.")
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Streamed{id: id, label: label, command: command, log: log}, nil
}

func (s *Streamed) ID() string { return s.id }

func (s *Streamed) Triggerable() bool { return false }

func (s *Streamed) Wake() {}

// Run spawns the command and reads its output streams concurrently until
// the process exits.
func (s *Streamed) Run(ctx context.Context, _ string, bus chan<- Result) {
	// Use shell to interpret the command (handles pipes, flags, etc.)
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", s.command)

	push := func(text string) {
		select {
		case bus <- Result{ID: s.id, Text: text}:
		case <-ctx.Done():
		}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.log.Error("monitor %s: stdout pipe: %v", s.id, err)
		push(s.label + SentinelExit)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.log.Error("monitor %s: stderr pipe: %v", s.id, err)
		push(s.label + SentinelExit)
		return
	}

	if err := cmd.Start(); err != nil {
		s.log.Error("monitor %s: couldn't start %q: %v", s.id, s.command, err)
		push(s.label + SentinelExit)
		return
	}

	// An abandoned reader (e.g. an oversized line) leaves the child
	// blocked on a full pipe and Wait never returns. Kill the process and
	// close both read ends so the writers die, the other reader unblocks,
	// and the EXIT sentinel still goes out.
	var abort sync.Once
	fail := func(stream string, err error) {
		abort.Do(func() {
			s.log.Error("monitor %s: reading %s: %v", s.id, stream, err)
			cmd.Process.Kill()
			stdout.Close()
			stderr.Close()
		})
	}

	var readers sync.WaitGroup
	readers.Add(2)

	go func() {
		defer readers.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			push(s.label + line)
		}
		if err := scanner.Err(); err != nil {
			fail("stdout", err)
		}
	}()

	go func() {
		defer readers.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			s.log.Warn("monitor %s stderr: %s", s.id, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			fail("stderr", err)
		}
	}()

	readers.Wait()
	if err := cmd.Wait(); err != nil {
		s.log.Error("monitor %s: %q exited: %v", s.id, s.command, err)
	} else {
		s.log.Info("monitor %s: %q exited", s.id, s.command)
	}
	push(s.label + SentinelExit)
}
