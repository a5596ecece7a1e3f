package trigger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-ajensen/bb/internal/logger"
	"github.com/s-ajensen/bb/internal/monitor"
)

// fakeMonitor records Wake calls.
type fakeMonitor struct {
	id          string
	triggerable bool
	woken       chan struct{}
}

func newFakeMonitor(id string, triggerable bool) *fakeMonitor {
	return &fakeMonitor{id: id, triggerable: triggerable, woken: make(chan struct{}, 8)}
}

func (m *fakeMonitor) ID() string        { return m.id }
func (m *fakeMonitor) Triggerable() bool { return m.triggerable }
func (m *fakeMonitor) Wake()             { m.woken <- struct{}{} }
func (m *fakeMonitor) Run(ctx context.Context, target string, bus chan<- monitor.Result) {
	<-ctx.Done()
}

func TestWatcherWakesMatchingMonitor(t *testing.T) {
	dir := t.TempDir()
	batt := newFakeMonitor("battery", true)

	w := NewWatcher(dir, 10*time.Millisecond, []monitor.Monitor{batt}, logger.Noop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, CreateMarkers(dir, []string{"battery"}))

	select {
	case <-batt.woken:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor was never woken")
	}

	// The marker is consumed.
	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "battery"))
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)
}

func TestWatcherUnknownIDWarnsOnly(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewBufferLogger()
	batt := newFakeMonitor("battery", true)

	w := NewWatcher(dir, 0, []monitor.Monitor{batt}, log)

	require.NoError(t, CreateMarkers(dir, []string{"ghost"}))
	w.scan()

	assert.True(t, log.Contains("unknown monitor 'ghost'"))
	assert.Empty(t, batt.woken)
}

func TestWatcherNonTriggerableWarnsOnly(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewBufferLogger()
	stream := newFakeMonitor("net", false)

	w := NewWatcher(dir, 0, []monitor.Monitor{stream}, log)

	require.NoError(t, CreateMarkers(dir, []string{"net"}))
	w.scan()

	assert.True(t, log.Contains("doesn't support triggering"))
	assert.Empty(t, stream.woken)
}

func TestWatcherMissingDirIsSilent(t *testing.T) {
	log := logger.NewBufferLogger()
	w := NewWatcher(filepath.Join(t.TempDir(), "nope"), 0, nil, log)

	w.scan()

	assert.Empty(t, log.Messages)
}

func TestCreateMarkersCreatesDirAndFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "watch", "terminal")

	require.NoError(t, CreateMarkers(dir, []string{"battery", "volume"}))

	for _, id := range []string{"battery", "volume"} {
		info, err := os.Stat(filepath.Join(dir, id))
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	}
}

func TestCreateMarkersIdempotent(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, CreateMarkers(dir, []string{"battery"}))
	require.NoError(t, CreateMarkers(dir, []string{"battery"}))
}
