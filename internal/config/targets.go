package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/s-ajensen/bb/internal/errors"
)

// TargetsFileName is the targets registry, looked up in ~/.config/bb/.
const TargetsFileName = "targets.toml"

// Target describes one display destination: which publisher delivers the
// bar, where trigger markers are watched, and where the instance logs.
type Target struct {
	Publisher string `toml:"publisher"`
	WatchDir  string `toml:"watch_dir"`
	LogFile   string `toml:"log_file"`
}

// Targets maps target name to its settings.
type Targets map[string]Target

// DefaultTargets returns the built-in registry, used when no
// targets.toml exists.
func DefaultTargets() Targets {
	return Targets{
		"terminal": defaultTarget("terminal"),
		"xtitle":   defaultTarget("xtitle"),
		"tmux":     defaultTarget("tmux"),
	}
}

func defaultTarget(name string) Target {
	return Target{
		Publisher: name,
		WatchDir:  filepath.Join(stateDir(), "watch", name),
		LogFile:   filepath.Join(stateDir(), "logs", name+".log"),
	}
}

// stateDir is where watch dirs and logs live: ~/.bb, or the system temp
// dir when no home is available.
func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "bb")
	}
	return filepath.Join(home, ".bb")
}

// LoadTargets reads the registry from path, or from
// ~/.config/bb/targets.toml when path is empty. A missing file yields
// the defaults. Entries missing a watch dir or log file are filled from
// the defaults for their name.
func LoadTargets(path string) (Targets, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return DefaultTargets(), nil
		}
		path = filepath.Join(home, GlobalConfigDir, TargetsFileName)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultTargets(), nil
	}

	var targets Targets
	if _, err := toml.DecodeFile(path, &targets); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't parse "+path,
			"Check the file is valid TOML.")
	}

	for name, t := range targets {
		def := defaultTarget(name)
		if t.Publisher == "" {
			t.Publisher = def.Publisher
		}
		if t.WatchDir == "" {
			t.WatchDir = def.WatchDir
		}
		if t.LogFile == "" {
			t.LogFile = def.LogFile
		}
		targets[name] = t
	}

	return targets, nil
}

// Lookup resolves a target by name; unknown names are a configuration
// error listing what is available.
func (ts Targets) Lookup(name string) (Target, error) {
	t, ok := ts[name]
	if !ok {
		return Target{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown target '%s'", name),
			fmt.Sprintf("Configured targets: %s", strings.Join(ts.Names(), ", ")))
	}
	return t, nil
}

// Names returns the sorted target names.
func (ts Targets) Names() []string {
	names := make([]string, 0, len(ts))
	for name := range ts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
