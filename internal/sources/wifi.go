package sources

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/s-ajensen/bb/internal/monitor"
)

// Wifi reports the connected SSID and link quality, e.g. "home 72%".
// SSID comes from iwgetid; quality from the wireless stats file
// (normally /proc/net/wireless). No connection yields an empty fragment.
func Wifi(wirelessPath string) monitor.ComputeFunc {
	return func() (string, error) {
		ssid := currentSSID()
		if ssid == "" {
			return "", nil
		}

		data, err := readLine(wirelessPath)
		if err != nil {
			return ssid, nil
		}
		quality := parseWirelessQuality(data)
		if quality < 0 {
			return ssid, nil
		}
		return fmt.Sprintf("%s %d%%", ssid, quality), nil
	}
}

// currentSSID asks iwgetid for the active SSID; empty when disconnected
// or the tool is missing.
func currentSSID() string {
	out, err := exec.Command("iwgetid", "-r").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// parseWirelessQuality extracts the link quality column from
// /proc/net/wireless and scales it to a percentage of the usual 70-step
// scale. Returns -1 when no interface row is present.
func parseWirelessQuality(data string) int {
	lines := strings.Split(data, "\n")
	// First two lines are headers.
	for _, line := range lines[min(2, len(lines)):] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		link := strings.TrimSuffix(fields[2], ".")
		q, err := strconv.ParseFloat(link, 64)
		if err != nil {
			continue
		}
		pct := int(q / 70 * 100)
		if pct > 100 {
			pct = 100
		}
		return pct
	}
	return -1
}
