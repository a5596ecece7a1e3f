package sources

import (
	"os/exec"
	"regexp"

	"github.com/s-ajensen/bb/internal/monitor"
)

var amixerPattern = regexp.MustCompile(`\[(\d+)%\]\s*(?:\[[\d.]+dB\]\s*)?\[(on|off)\]`)

// Volume reports the master mixer level via amixer, e.g. "50%", or
// "muted" when the channel is off. A missing mixer tool is an error
// (surfaced as the BUG sentinel by the monitor loop).
func Volume() monitor.ComputeFunc {
	return func() (string, error) {
		out, err := exec.Command("amixer", "get", "Master").Output()
		if err != nil {
			return "", err
		}
		return parseAmixer(string(out)), nil
	}
}

// parseAmixer extracts "<pct>%" or "muted" from amixer output; empty
// when the output has no recognizable level.
func parseAmixer(out string) string {
	m := amixerPattern.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	if m[2] == "off" {
		return "muted"
	}
	return m[1] + "%"
}
