// Package bar assembles the latest fragment from every monitor into the
// single published status line. One consumer goroutine owns the
// latest-value table; monitors only ever talk to it through the result
// bus, so no locking is needed.
package bar

import (
	"context"
	"strings"

	"github.com/s-ajensen/bb/internal/errors"
	"github.com/s-ajensen/bb/internal/logger"
	"github.com/s-ajensen/bb/internal/monitor"
)

const (
	// MaxFieldWidth is the rune limit each fragment is truncated to.
	MaxFieldWidth = 38

	// Separator joins non-empty fragments.
	Separator = " | "

	// Padding wraps the assembled line on both sides.
	Padding = " "
)

// Publisher delivers the assembled line to a display target. A publish
// failure is fatal: there is no fallback rendering surface.
type Publisher interface {
	Publish(line string) error
}

// Assembler consumes the result bus, maintains the latest-value table,
// and republishes the composed line whenever any fragment changes.
type Assembler struct {
	order     []string          // monitor ids in declaration order
	latest    map[string]string // latest text per id; mutated only by Consume
	publisher Publisher
	log       logger.Logger
}

// New creates an Assembler for monitors declared in order (as configured;
// rendering reverses it so the rightmost declaration is leftmost on screen).
func New(order []string, publisher Publisher, log logger.Logger) *Assembler {
	if log == nil {
		log = logger.Noop()
	}
	return &Assembler{
		order:     order,
		latest:    make(map[string]string, len(order)),
		publisher: publisher,
		log:       log,
	}
}

// Consume receives results until ctx is cancelled or publishing fails.
// A publish failure is returned immediately; continuing would silently
// diverge from what is displayed.
func (a *Assembler) Consume(ctx context.Context, bus <-chan monitor.Result) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-bus:
			a.apply(res)
			line := a.Render()
			if err := a.publisher.Publish(line); err != nil {
				a.log.Error("publish failed: %v", err)
				return errors.WrapWithCode(err, errors.ErrPublish,
					"Couldn't publish the bar",
					"Check the display target is still alive.")
			}
		}
	}
}

// apply updates the latest-value table. Empty text clears the entry, so
// the id is omitted from the next render.
func (a *Assembler) apply(res monitor.Result) {
	if res.Text == "" {
		delete(a.latest, res.ID)
		return
	}
	a.latest[res.ID] = res.Text
}

// Render composes the bar from the current table: reversed declaration
// order, each fragment truncated to MaxFieldWidth runes, empty entries
// filtered, joined with Separator, wrapped in Padding.
func (a *Assembler) Render() string {
	fields := make([]string, 0, len(a.order))
	for i := len(a.order) - 1; i >= 0; i-- {
		text := a.latest[a.order[i]]
		if text == "" {
			continue
		}
		fields = append(fields, truncate(text, MaxFieldWidth))
	}
	return Padding + strings.Join(fields, Separator) + Padding
}

// truncate limits s to max runes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
