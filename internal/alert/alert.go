// Package alert implements the blinking alert state machine: a
// controller owning the set of active alert reasons, and a blinker that
// oscillates the joined reasons on and off at a fixed interval for as
// long as the set is non-empty. It runs as the Custom body of the
// built-in alert monitor, so its output flows through the result bus
// like any other fragment.
package alert

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/s-ajensen/bb/internal/logger"
	"github.com/s-ajensen/bb/internal/monitor"
)

const (
	// DefaultBlinkInterval is the on/off swap cadence while alerts are active.
	DefaultBlinkInterval = 500 * time.Millisecond

	// DefaultIdleTimeout is how long the blinker sleeps between wake-ups
	// while no alerts are active.
	DefaultIdleTimeout = time.Hour
)

// message is an add or remove request for one alert reason.
type message struct {
	reason string
	add    bool
}

// pair is the blinker's display state: the joined reasons and a blank
// string of identical rune length, so the bar width is stable while
// blinking. An empty pair means "go idle".
type pair struct {
	on  string
	off string
}

// Engine is the alert state machine. Add and Remove may be called from
// any monitor; the reason set itself is owned by the controller
// goroutine and mutated only in response to control messages.
type Engine struct {
	ctl   chan message
	blink time.Duration
	idle  time.Duration
}

// New creates an Engine. Zero durations fall back to the defaults.
func New(blink, idle time.Duration) *Engine {
	if blink <= 0 {
		blink = DefaultBlinkInterval
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Engine{
		ctl:   make(chan message, 16),
		blink: blink,
		idle:  idle,
	}
}

// Add flags reason as an active alert. Adding an already-active reason
// is a no-op. Non-blocking: a run without the alert monitor never
// drains ctl, and a source flagging a condition must not wedge behind
// the full buffer.
func (e *Engine) Add(reason string) {
	select {
	case e.ctl <- message{reason: reason, add: true}:
	default:
	}
}

// Remove clears reason. Removing an unknown reason is a no-op.
// Non-blocking, like Add.
func (e *Engine) Remove(reason string) {
	select {
	case e.ctl <- message{reason: reason}:
	default:
	}
}

// Body returns the custom monitor body running the engine: the
// controller goroutine plus the blinker loop.
func (e *Engine) Body() monitor.CustomFunc {
	return func(ctx context.Context, _ string, push func(string), log logger.Logger) {
		pairs := make(chan pair, 1)
		go e.control(ctx, pairs, log)
		e.blinkLoop(ctx, pairs, push)
	}
}

// control owns the reason set. Whenever the joined display text changes
// it sends a fresh pair to the blinker. Comparing the joined text rather
// than the set size covers a remove and an add landing in the same
// moment, which leaves the size unchanged but must still update the
// displayed reasons.
func (e *Engine) control(ctx context.Context, pairs chan<- pair, log logger.Logger) {
	reasons := make(map[string]struct{})
	current := ""

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-e.ctl:
			if m.add {
				reasons[m.reason] = struct{}{}
				log.Info("alert raised: %s", m.reason)
			} else {
				delete(reasons, m.reason)
				log.Info("alert cleared: %s", m.reason)
			}

			joined := join(reasons)
			if joined == current {
				continue
			}
			current = joined

			p := pair{}
			if joined != "" {
				p.on = "!! " + joined + " !!"
				p.off = strings.Repeat(" ", len([]rune(p.on)))
			}

			select {
			case pairs <- p:
			case <-ctx.Done():
				return
			}
		}
	}
}

// blinkLoop races the pair channel against a timer. While a pair is
// active it swaps on/off every blink interval; when the pair empties it
// pushes a single blank result and reverts to the idle timeout.
func (e *Engine) blinkLoop(ctx context.Context, pairs <-chan pair, push func(string)) {
	timer := time.NewTimer(e.idle)
	defer timer.Stop()

	var s1, s2 string
	active := false

	rearm := func(d time.Duration) {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case p := <-pairs:
			if p.on == "" {
				active = false
				push("")
				rearm(e.idle)
				continue
			}
			s1, s2 = p.on, p.off
			active = true
			push(s1)
			rearm(e.blink)

		case <-timer.C:
			if !active {
				timer.Reset(e.idle)
				continue
			}
			s1, s2 = s2, s1
			push(s1)
			timer.Reset(e.blink)
		}
	}
}

// join renders the reason set as a deterministic sorted list.
func join(reasons map[string]struct{}) string {
	if len(reasons) == 0 {
		return ""
	}
	list := make([]string, 0, len(reasons))
	for r := range reasons {
		list = append(list, r)
	}
	sort.Strings(list)
	return strings.Join(list, ", ")
}
