// Package sources holds the built-in monitor content: compute functions
// polling OS status files and commands, plus custom thread bodies. The
// core never interprets their text; each source just returns the current
// fragment (or nothing).
package sources

import (
	"github.com/s-ajensen/bb/internal/monitor"
)

// Alerter is the subset of the alert engine sources use to flag
// conditions (e.g. battery critically low).
type Alerter interface {
	Add(reason string)
	Remove(reason string)
}

// Registry maps source and custom names from the config file to their
// implementations.
type Registry struct {
	computes map[string]monitor.ComputeFunc
	customs  map[string]monitor.CustomFunc
}

// NewRegistry builds the registry of built-ins. The alert body runs the
// given engine; battery reports low-charge conditions to alerts.
func NewRegistry(alerts Alerter, alertBody monitor.CustomFunc) *Registry {
	return &Registry{
		computes: map[string]monitor.ComputeFunc{
			"battery": Battery("/sys/class/power_supply", alerts),
			"memory":  Memory("/proc/meminfo"),
			"loadavg": Loadavg("/proc/loadavg"),
			"wifi":    Wifi("/proc/net/wireless"),
			"volume":  Volume(),
			"clock":   Clock(),
		},
		customs: map[string]monitor.CustomFunc{
			"alert": alertBody,
		},
	}
}

// Compute looks up a built-in compute source by name.
func (r *Registry) Compute(name string) (monitor.ComputeFunc, bool) {
	fn, ok := r.computes[name]
	return fn, ok
}

// Custom looks up a built-in thread body by name.
func (r *Registry) Custom(name string) (monitor.CustomFunc, bool) {
	fn, ok := r.customs[name]
	return fn, ok
}

// ComputeNames returns the registered compute source names.
func (r *Registry) ComputeNames() []string {
	names := make([]string, 0, len(r.computes))
	for name := range r.computes {
		names = append(names, name)
	}
	return names
}
