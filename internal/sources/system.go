package sources

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/s-ajensen/bb/internal/monitor"
)

// Memory reads meminfo (normally /proc/meminfo) and reports the used
// percentage, e.g. "42%".
func Memory(path string) monitor.ComputeFunc {
	return func() (string, error) {
		data, err := readLine(path)
		if err != nil {
			return "", err
		}
		return parseMeminfo(data)
	}
}

// parseMeminfo computes used% from MemTotal and MemAvailable.
func parseMeminfo(data string) (string, error) {
	var totalKB, availKB int
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB, _ = strconv.Atoi(fields[1])
		case "MemAvailable:":
			availKB, _ = strconv.Atoi(fields[1])
		}
	}
	if totalKB <= 0 {
		return "", fmt.Errorf("meminfo: no MemTotal")
	}
	used := 100 * (totalKB - availKB) / totalKB
	return fmt.Sprintf("%d%%", used), nil
}

// Loadavg reads the load file (normally /proc/loadavg) and reports the
// one-minute average.
func Loadavg(path string) monitor.ComputeFunc {
	return func() (string, error) {
		data, err := readLine(path)
		if err != nil {
			return "", err
		}
		fields := strings.Fields(data)
		if len(fields) == 0 {
			return "", fmt.Errorf("loadavg: empty file")
		}
		return fields[0], nil
	}
}

// Clock reports the local time. Its fragment changes once a minute, but
// polling faster keeps the displayed minute fresh after a wake.
func Clock() monitor.ComputeFunc {
	return func() (string, error) {
		return time.Now().Format("Mon 02 Jan 15:04"), nil
	}
}
