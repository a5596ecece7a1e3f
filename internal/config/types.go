package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// DefaultInterval is the polling interval for computed monitors that
// don't declare one.
const DefaultInterval = 5 * time.Second

// Config represents the complete .bb.yaml configuration file. The
// monitors list is ordered: declaration order is the display order
// (reversed at render time, so the last declared monitor is leftmost
// on screen).
type Config struct {
	Version  int           `yaml:"version" mapstructure:"version"`
	Monitors []MonitorSpec `yaml:"monitors" mapstructure:"monitors"`
}

// MonitorSpec declares one monitor. Exactly one of Command, Source, or
// Custom selects the execution variant:
//   - Command: a streamed monitor following the command's stdout
//   - Source: a computed monitor polling the named built-in source
//   - Custom: a custom monitor running the named built-in thread body
type MonitorSpec struct {
	// ID uniquely identifies the monitor. Duplicates are a fatal
	// configuration error.
	ID string `yaml:"id" mapstructure:"id"`

	// Label is an optional prefix prepended to every fragment.
	Label string `yaml:"label" mapstructure:"label"`

	// Enabled defaults to true. Disabled monitors never start, unless
	// explicitly named on the run command line.
	Enabled *bool `yaml:"enabled" mapstructure:"enabled"`

	// Interval is the polling cadence for computed monitors
	// (a duration string like "2s" or "1m"). Invalid on other variants.
	Interval string `yaml:"interval" mapstructure:"interval"`

	// Command is the command line for a streamed monitor.
	Command string `yaml:"command" mapstructure:"command"`

	// Source names a built-in compute source for a computed monitor.
	Source string `yaml:"source" mapstructure:"source"`

	// Custom names a built-in thread body for a custom monitor.
	Custom string `yaml:"custom" mapstructure:"custom"`
}

// IsEnabled reports whether the monitor starts by default.
func (s MonitorSpec) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// ParsedInterval returns the polling interval, falling back to
// DefaultInterval when unset. Call Validate first; invalid durations
// are a validation error, not a parse-time one.
func (s MonitorSpec) ParsedInterval() time.Duration {
	if s.Interval == "" {
		return DefaultInterval
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return DefaultInterval
	}
	return d
}

// DisplayOrder returns the declared monitor ids in declaration order.
func (c *Config) DisplayOrder() []string {
	ids := make([]string, 0, len(c.Monitors))
	for _, m := range c.Monitors {
		ids = append(ids, m.ID)
	}
	return ids
}

// DefaultConfig returns a Config with a useful starter monitor set.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Monitors: []MonitorSpec{
			{ID: "alert", Custom: "alert"},
			{ID: "volume", Label: "vol: ", Source: "volume", Interval: "2s"},
			{ID: "wifi", Label: "wifi: ", Source: "wifi", Interval: "10s"},
			{ID: "memory", Label: "mem: ", Source: "memory", Interval: "10s"},
			{ID: "load", Label: "load: ", Source: "loadavg", Interval: "10s"},
			{ID: "battery", Label: "batt: ", Source: "battery", Interval: "30s"},
			{ID: "clock", Source: "clock", Interval: "1s"},
		},
	}
}
