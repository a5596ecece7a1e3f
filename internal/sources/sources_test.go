package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-ajensen/bb/internal/logger"
)

// recordingAlerter captures Add/Remove calls.
type recordingAlerter struct {
	added   []string
	removed []string
}

func (a *recordingAlerter) Add(reason string)    { a.added = append(a.added, reason) }
func (a *recordingAlerter) Remove(reason string) { a.removed = append(a.removed, reason) }

// writeBattery lays out a fake sysfs battery directory.
func writeBattery(t *testing.T, root, capacity, status string, extra map[string]string) {
	t.Helper()
	dir := filepath.Join(root, "BAT0")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "capacity"), []byte(capacity+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "status"), []byte(status+"\n"), 0644))
	for name, value := range extra {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0644))
	}
}

func TestBatteryFormatsChargeAndStatus(t *testing.T) {
	root := t.TempDir()
	writeBattery(t, root, "85", "Discharging", map[string]string{
		"energy_now": "47500000",
		"power_now":  "6000000",
	})

	fn := Battery(root, nil)
	out, err := fn()
	require.NoError(t, err)
	// 47.5Wh at 6W is 7h55m remaining.
	assert.Equal(t, "85% D 07:55", out)
}

func TestBatteryWithoutPowerReadings(t *testing.T) {
	root := t.TempDir()
	writeBattery(t, root, "100", "Full", nil)

	fn := Battery(root, nil)
	out, err := fn()
	require.NoError(t, err)
	assert.Equal(t, "100% F", out)
}

func TestBatteryMissingIsError(t *testing.T) {
	fn := Battery(t.TempDir(), nil)

	_, err := fn()
	assert.Error(t, err)
}

func TestBatteryRaisesAndClearsLowAlert(t *testing.T) {
	root := t.TempDir()
	writeBattery(t, root, "8", "Discharging", nil)

	alerts := &recordingAlerter{}
	fn := Battery(root, alerts)

	_, err := fn()
	require.NoError(t, err)
	assert.Equal(t, []string{"battery low"}, alerts.added)

	// Repeated low readings don't re-raise.
	_, err = fn()
	require.NoError(t, err)
	assert.Len(t, alerts.added, 1)
	assert.Empty(t, alerts.removed)

	// Plugging in clears the alert.
	writeBattery(t, root, "9", "Charging", nil)
	_, err = fn()
	require.NoError(t, err)
	assert.Equal(t, []string{"battery low"}, alerts.removed)
}

func TestMemoryReportsUsedPercent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	content := "MemTotal:       16000000 kB\nMemFree:         2000000 kB\nMemAvailable:    8000000 kB\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	out, err := Memory(path)()
	require.NoError(t, err)
	assert.Equal(t, "50%", out)
}

func TestMemoryNoTotalIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	require.NoError(t, os.WriteFile(path, []byte("MemFree: 1 kB\n"), 0644))

	_, err := Memory(path)()
	assert.Error(t, err)
}

func TestLoadavgReportsOneMinute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loadavg")
	require.NoError(t, os.WriteFile(path, []byte("0.52 0.58 0.59 1/389 12345\n"), 0644))

	out, err := Loadavg(path)()
	require.NoError(t, err)
	assert.Equal(t, "0.52", out)
}

func TestClockIsNonEmpty(t *testing.T) {
	out, err := Clock()()
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestParseAmixer(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{
			name: "level on",
			out:  "  Front Left: Playback 32768 [50%] [on]",
			want: "50%",
		},
		{
			name: "level with dB",
			out:  "  Mono: Playback 87 [67%] [-21.25dB] [on]",
			want: "67%",
		},
		{
			name: "muted",
			out:  "  Front Left: Playback 32768 [50%] [off]",
			want: "muted",
		},
		{
			name: "unrecognizable",
			out:  "amixer: Unable to find simple control 'Master'",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAmixer(tt.out))
		})
	}
}

func TestParseWirelessQuality(t *testing.T) {
	data := "Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE\n" +
		" face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22\n" +
		" wlan0: 0000   49.  -61.  -256        0      0      0      0      0        0\n"

	assert.Equal(t, 70, parseWirelessQuality(data))
}

func TestParseWirelessQualityNoInterface(t *testing.T) {
	data := "Inter-| sta-|   Quality\n face | tus | link level noise\n"

	assert.Equal(t, -1, parseWirelessQuality(data))
}

func TestRegistryLookups(t *testing.T) {
	body := func(ctx context.Context, target string, push func(string), log logger.Logger) {}
	reg := NewRegistry(&recordingAlerter{}, body)

	for _, name := range []string{"battery", "memory", "loadavg", "wifi", "volume", "clock"} {
		fn, ok := reg.Compute(name)
		assert.True(t, ok, name)
		assert.NotNil(t, fn, name)
	}

	custom, ok := reg.Custom("alert")
	assert.True(t, ok)
	assert.NotNil(t, custom)

	_, ok = reg.Compute("hologram")
	assert.False(t, ok)
	_, ok = reg.Custom("hologram")
	assert.False(t, ok)

	assert.Len(t, reg.ComputeNames(), 6)
}
