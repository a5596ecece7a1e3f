package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/s-ajensen/bb/internal/errors"
)

// Validate checks the monitor declarations for errors. All problems are
// configuration errors (exit code 2) and the message names the
// offending monitor id.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but bb only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest bb release.")
	}

	if len(cfg.Monitors) == 0 {
		return errors.New(errors.ErrConfig,
			"No monitors declared",
			"Add a 'monitors' list to your config, or run 'bb init' for a starter set.")
	}

	seen := make(map[string]bool, len(cfg.Monitors))
	for _, m := range cfg.Monitors {
		if m.ID == "" {
			return errors.New(errors.ErrConfig,
				"A monitor is missing its id",
				"Give every monitor a unique id.")
		}
		if strings.ContainsAny(m.ID, "/\\ ") {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Monitor id '%s' contains unsafe characters", m.ID),
				"Ids become trigger marker file names - stick to letters, digits, dashes.")
		}
		if seen[m.ID] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Duplicate monitor id '%s'", m.ID),
				"Every monitor needs a unique id - rename or remove one of them.")
		}
		seen[m.ID] = true

		if err := validateVariant(m); err != nil {
			return err
		}
	}

	return nil
}

// validateVariant enforces that exactly one execution variant is
// selected, and that the interval is only used where it means something.
func validateVariant(m MonitorSpec) error {
	set := 0
	if m.Command != "" {
		set++
	}
	if m.Source != "" {
		set++
	}
	if m.Custom != "" {
		set++
	}

	if set == 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Monitor '%s' doesn't select a variant", m.ID),
			"Set exactly one of 'command', 'source', or 'custom'.")
	}
	if set > 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Monitor '%s' selects more than one variant", m.ID),
			"Set exactly one of 'command', 'source', or 'custom' - they're mutually exclusive.")
	}

	if m.Interval != "" {
		if m.Source == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Monitor '%s' has an interval but isn't a computed monitor", m.ID),
				"Only 'source' monitors poll on an interval - remove it here.")
		}
		d, err := time.ParseDuration(m.Interval)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Monitor '%s' has an invalid interval '%s'", m.ID, m.Interval),
				"Use a duration like 2s, 30s, or 1m.")
		}
		if d <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Monitor '%s' needs a positive interval (got %s)", m.ID, m.Interval),
				"Use a duration like 2s, 30s, or 1m.")
		}
	}

	return nil
}

// Select returns the monitors to run. With no names, all enabled
// monitors are selected. Naming monitors restricts the run to exactly
// those, regardless of their enabled flag; an unknown name is a
// configuration error.
func Select(cfg *Config, names []string) ([]MonitorSpec, error) {
	if len(names) == 0 {
		selected := make([]MonitorSpec, 0, len(cfg.Monitors))
		for _, m := range cfg.Monitors {
			if m.IsEnabled() {
				selected = append(selected, m)
			}
		}
		return selected, nil
	}

	byID := make(map[string]MonitorSpec, len(cfg.Monitors))
	for _, m := range cfg.Monitors {
		byID[m.ID] = m
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := byID[name]; !ok {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown monitor id '%s'", name),
				fmt.Sprintf("Configured monitors: %s", strings.Join(cfg.DisplayOrder(), ", ")))
		}
		wanted[name] = true
	}

	// Preserve declaration order.
	selected := make([]MonitorSpec, 0, len(names))
	for _, m := range cfg.Monitors {
		if wanted[m.ID] {
			selected = append(selected, m)
		}
	}
	return selected, nil
}
