// Package supervisor wires the pieces together for one display target:
// it enforces a single running instance per target, starts one goroutine
// per enabled monitor plus the trigger watcher, and owns the bar
// consumer loop until a fatal condition ends the process.
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/s-ajensen/bb/internal/bar"
	"github.com/s-ajensen/bb/internal/config"
	"github.com/s-ajensen/bb/internal/errors"
	"github.com/s-ajensen/bb/internal/logger"
	"github.com/s-ajensen/bb/internal/monitor"
	"github.com/s-ajensen/bb/internal/sources"
	"github.com/s-ajensen/bb/internal/trigger"
)

// busCapacity buffers bursts from many monitors reporting at once; the
// consumer only ever needs the latest value per id, so modest slack is
// plenty.
const busCapacity = 64

// Options configures a Supervisor.
type Options struct {
	// Target is the display target name (used for singleton matching).
	Target string

	// WatchDir is the trigger marker directory for this target.
	WatchDir string

	// Monitors to run, in declaration order.
	Monitors []monitor.Monitor

	// Order is the declared id sequence handed to the assembler.
	Order []string

	// Publisher receives every assembled line.
	Publisher bar.Publisher

	// Log receives supervisor and monitor output.
	Log logger.Logger
}

// Supervisor runs one bar instance.
type Supervisor struct {
	opts Options
	log  logger.Logger
}

// New creates a Supervisor.
func New(opts Options) *Supervisor {
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}
	return &Supervisor{opts: opts, log: log}
}

// Run starts everything and blocks in the consumer loop until a fatal
// condition: publish failure, termination signal, or cancellation.
// The returned error is always non-nil and maps to exit code 1.
func (s *Supervisor) Run(ctx context.Context) error {
	if len(s.opts.Monitors) == 0 {
		return errors.New(errors.ErrExec,
			"No monitors active",
			"Enable at least one monitor, or name monitors on the command line.")
	}

	TerminateOthers(s.opts.Target, s.log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.log.Info("received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	bus := make(chan monitor.Result, busCapacity)

	for _, m := range s.opts.Monitors {
		s.log.Info("starting monitor %s", m.ID())
		go m.Run(ctx, s.opts.Target, bus)
	}

	watcher := trigger.NewWatcher(s.opts.WatchDir, 0, s.opts.Monitors, s.log)
	go watcher.Run(ctx)

	assembler := bar.New(s.opts.Order, s.opts.Publisher, s.log)
	err := assembler.Consume(ctx, bus)
	if err == context.Canceled {
		return errors.New(errors.ErrExec,
			"Shut down by signal",
			"")
	}
	return err
}

// BuildMonitors constructs the runtime monitors for the selected specs.
// Unknown source or custom names are configuration errors naming the
// offending monitor id.
func BuildMonitors(specs []config.MonitorSpec, reg *sources.Registry, log logger.Logger) ([]monitor.Monitor, error) {
	monitors := make([]monitor.Monitor, 0, len(specs))
	for _, spec := range specs {
		m, err := buildMonitor(spec, reg, monitorLogger(log, spec.ID))
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, m)
	}
	return monitors, nil
}

// monitorLogger tags the shared target log with the monitor's id, so
// lines from different monitors stay attributable in one file.
func monitorLogger(log logger.Logger, id string) logger.Logger {
	if p, ok := log.(interface{ WithPrefix(string) logger.Logger }); ok {
		return p.WithPrefix("[" + id + "]")
	}
	return log
}

func buildMonitor(spec config.MonitorSpec, reg *sources.Registry, log logger.Logger) (monitor.Monitor, error) {
	switch {
	case spec.Source != "":
		fn, ok := reg.Compute(spec.Source)
		if !ok {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Monitor '%s' references unknown source '%s'", spec.ID, spec.Source),
				fmt.Sprintf("Built-in sources: %s", strings.Join(reg.ComputeNames(), ", ")))
		}
		return monitor.NewComputed(spec.ID, spec.Label, spec.ParsedInterval(), fn, log)

	case spec.Command != "":
		return monitor.NewStreamed(spec.ID, spec.Label, spec.Command, log)

	case spec.Custom != "":
		body, ok := reg.Custom(spec.Custom)
		if !ok {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Monitor '%s' references unknown custom body '%s'", spec.ID, spec.Custom),
				"The only built-in custom body is 'alert'.")
		}
		return monitor.NewCustom(spec.ID, body, log)

	default:
		// Validate catches this earlier; construction stays exhaustive anyway.
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Monitor '%s' doesn't select a variant", spec.ID),
			"Set exactly one of 'command', 'source', or 'custom'.")
	}
}

// instancePattern matches the argv of an instance running exactly this
// target. The trailing anchor keeps target 'term' from matching a
// 'bb run terminal' instance, while still matching runs restricted to
// named monitors ('bb run term battery').
func instancePattern(target string) string {
	return "bb run " + regexp.QuoteMeta(target) + "( |$)"
}

// TerminateOthers signals TERM to every other running `bb run <target>`
// process, so only the newest instance publishes to the target. Scan
// failures are logged and ignored: a missing pgrep must not block
// startup.
func TerminateOthers(target string, log logger.Logger) {
	out, err := exec.Command("pgrep", "-f", instancePattern(target)).Output()
	if err != nil {
		// pgrep exits 1 when nothing matches.
		log.Debug("instance scan found nothing: %v", err)
		return
	}

	self := os.Getpid()
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		pid, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || pid == self {
			continue
		}
		proc, err := os.FindProcess(pid)
		if err != nil {
			continue
		}
		if err := proc.Signal(syscall.SIGTERM); err != nil {
			log.Warn("couldn't terminate instance %d: %v", pid, err)
			continue
		}
		log.Info("terminated older instance %d", pid)
	}
}
