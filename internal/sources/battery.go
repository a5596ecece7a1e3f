package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/s-ajensen/bb/internal/monitor"
)

// LowBatteryPercent is the capacity at which the battery source raises
// an alert while discharging.
const LowBatteryPercent = 10

// lowBatteryReason is the alert reason the battery source owns.
const lowBatteryReason = "battery low"

// Battery reads the first battery under root (normally
// /sys/class/power_supply) and formats "<pct>% <C|D|F> [hh:mm]".
// While discharging at or below LowBatteryPercent it raises the
// low-battery alert; any other state clears it.
func Battery(root string, alerts Alerter) monitor.ComputeFunc {
	low := false
	return func() (string, error) {
		dir, err := findBattery(root)
		if err != nil {
			return "", err
		}

		capacity, err := readInt(filepath.Join(dir, "capacity"))
		if err != nil {
			return "", err
		}
		status, err := readLine(filepath.Join(dir, "status"))
		if err != nil {
			return "", err
		}

		discharging := status == "Discharging"
		if alerts != nil {
			if discharging && capacity <= LowBatteryPercent {
				if !low {
					alerts.Add(lowBatteryReason)
					low = true
				}
			} else if low {
				alerts.Remove(lowBatteryReason)
				low = false
			}
		}

		out := fmt.Sprintf("%d%% %s", capacity, statusLetter(status))
		if remaining := timeRemaining(dir); remaining != "" {
			out += " " + remaining
		}
		return out, nil
	}
}

// findBattery returns the first BAT* directory under root.
func findBattery(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "BAT") {
			return filepath.Join(root, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no battery under %s", root)
}

func statusLetter(status string) string {
	switch status {
	case "Charging":
		return "C"
	case "Discharging":
		return "D"
	case "Full":
		return "F"
	default:
		return "?"
	}
}

// timeRemaining estimates hh:mm until empty/full from the energy and
// power readings. Returns "" when the kernel doesn't expose them or the
// draw is zero.
func timeRemaining(dir string) string {
	energy, err := readInt(filepath.Join(dir, "energy_now"))
	if err != nil {
		return ""
	}
	power, err := readInt(filepath.Join(dir, "power_now"))
	if err != nil || power <= 0 {
		return ""
	}
	minutes := energy * 60 / power
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func readLine(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readInt(path string) (int, error) {
	line, err := readLine(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(line)
}
