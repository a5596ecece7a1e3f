// Package monitor implements the execution framework for bar monitors:
// independent units of work that each produce a stream of optional text
// fragments under a unique id. Three variants exist, chosen at
// construction: Computed (poll a function on an interval, wakeable by an
// external trigger), Streamed (follow a child process's stdout line by
// line), and Custom (an opaque self-timed body, used by the alert engine).
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/s-ajensen/bb/internal/errors"
	"github.com/s-ajensen/bb/internal/logger"
)

// ComputeFunc produces the current text for a Computed monitor.
// An empty string with a nil error means "nothing to display right now".
type ComputeFunc func() (string, error)

// CustomFunc is the body of a Custom monitor. It receives the active
// display target name and a push callback for publishing fragments, and
// is fully responsible for its own timing. It should return only when
// ctx is cancelled.
type CustomFunc func(ctx context.Context, target string, push func(text string), log logger.Logger)

// Monitor is a unit of work producing a stream of optional text
// fragments under one id. Implementations are immutable after
// construction; exactly one instance per id runs for the process
// lifetime.
type Monitor interface {
	// ID returns the monitor's unique identifier.
	ID() string

	// Run produces results on bus until its loop ends or ctx is
	// cancelled. Called exactly once, on its own goroutine.
	Run(ctx context.Context, target string, bus chan<- Result)

	// Triggerable reports whether Wake has any effect.
	Triggerable() bool

	// Wake requests an immediate refresh. Only Computed monitors
	// support this; for other variants it is a no-op.
	Wake()
}

// Computed polls a compute function on a fixed interval. Between polls it
// waits on a race between the interval timer and its wake channel, so an
// external trigger causes immediate re-computation.
type Computed struct {
	id       string
	label    string
	interval time.Duration
	compute  ComputeFunc
	wake     chan struct{}
	log      logger.Logger
}

// NewComputed validates and constructs a Computed monitor.
func NewComputed(id, label string, interval time.Duration, compute ComputeFunc, log logger.Logger) (*Computed, error) {
	if id == "" {
		return nil, errors.New(errors.ErrMonitor,
			"Computed monitor needs an id",
			"Give every monitor a unique id in the config.")
	}
	if compute == nil {
		return nil, errors.New(errors.ErrMonitor,
			fmt.Sprintf("Monitor '%s' has no compute function", id),
			"A computed monitor needs a source to poll.")
	}
	if interval <= 0 {
		return nil, errors.New(errors.ErrMonitor,
			fmt.Sprintf("Monitor '%s' needs a positive interval", id),
			"Try something like 2s, 30s, or 1m.")
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Computed{
		id:       id,
		label:    label,
		interval: interval,
		compute:  compute,
		wake:     make(chan struct{}, 1),
		log:      log,
	}, nil
}

func (c *Computed) ID() string { return c.id }

func (c *Computed) Triggerable() bool { return true }

// Wake interrupts the current wait, causing immediate re-computation.
// Non-blocking: wakes arriving while one is already pending coalesce.
func (c *Computed) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Run polls compute, publishing each result, until ctx is cancelled.
func (c *Computed) Run(ctx context.Context, _ string, bus chan<- Result) {
	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		text := c.computeOnce()

		select {
		case bus <- Result{ID: c.id, Text: text}:
		case <-ctx.Done():
			return
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.interval)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-c.wake:
			c.log.Debug("monitor %s woken by trigger", c.id)
		}
	}
}

// computeOnce runs the compute function, converting errors and panics
// into the BUG sentinel so one bad cycle never kills the loop.
func (c *Computed) computeOnce() (text string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("monitor %s panicked: %v", c.id, r)
			text = c.label + SentinelBug
		}
	}()

	out, err := c.compute()
	if err != nil {
		c.log.Error("monitor %s failed: %v", c.id, err)
		return c.label + SentinelBug
	}
	if out == "" {
		return ""
	}
	return c.label + out
}

// Custom runs an opaque body that produces its own results with bespoke
// timing, independent of the interval/trigger protocol.
type Custom struct {
	id   string
	body CustomFunc
	log  logger.Logger
}

// NewCustom validates and constructs a Custom monitor.
func NewCustom(id string, body CustomFunc, log logger.Logger) (*Custom, error) {
	if id == "" {
		return nil, errors.New(errors.ErrMonitor,
			"Custom monitor needs an id",
			"Give every monitor a unique id in the config.")
	}
	if body == nil {
		return nil, errors.New(errors.ErrMonitor,
			fmt.Sprintf("Monitor '%s' has no body", id),
			"A custom monitor needs a thread body to run.")
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Custom{id: id, body: body, log: log}, nil
}

func (m *Custom) ID() string { return m.id }

func (m *Custom) Triggerable() bool { return false }

func (m *Custom) Wake() {}

// Run hands control to the body; the push callback labels results with
// the monitor's id.
func (m *Custom) Run(ctx context.Context, target string, bus chan<- Result) {
	push := func(text string) {
		select {
		case bus <- Result{ID: m.id, Text: text}:
		case <-ctx.Done():
		}
	}
	m.body(ctx, target, push, m.log)
}
