package monitor

// Result is a single fragment produced by a monitor. An empty Text means
// the monitor currently has nothing to display, which clears its entry
// in the bar. Results are ephemeral: only the newest per ID survives.
type Result struct {
	ID   string
	Text string
}

// Sentinel suffixes appended to a monitor's label when its work fails.
// They are scoped to the failing monitor only; other monitors keep running.
const (
	// SentinelBug is displayed when a compute function returns an error
	// or panics.
	SentinelBug = "BUG"

	// SentinelExit is displayed once when a streamed monitor's child
	// process terminates, for any reason including failure to start.
	SentinelExit = "EXIT"
)
