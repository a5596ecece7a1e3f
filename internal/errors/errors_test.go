package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Duplicate monitor id 'battery'", "Remove one of the duplicate entries.")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Contains(t, err.Error(), "✗ Duplicate monitor id 'battery'")
	assert.Contains(t, err.Error(), "Remove one of the duplicate entries.")
}

func TestWrapWithCode(t *testing.T) {
	cause := fmt.Errorf("write /dev/stdout: broken pipe")
	err := WrapWithCode(cause, ErrPublish, "Couldn't publish the bar", "Check the display target is still alive.")

	assert.Equal(t, ErrPublish, err.Code)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			code: ErrConfig,
			want: false,
		},
		{
			name: "matching code",
			err:  New(ErrConfig, "bad config", ""),
			code: ErrConfig,
			want: true,
		},
		{
			name: "non-matching code",
			err:  New(ErrPublish, "publish failed", ""),
			code: ErrConfig,
			want: false,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("plain"),
			code: ErrConfig,
			want: false,
		},
		{
			name: "wrapped structured error",
			err:  fmt.Errorf("outer: %w", New(ErrTrigger, "unknown monitor", "")),
			code: ErrTrigger,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil is success", err: nil, want: 0},
		{name: "config errors are usage failures", err: New(ErrConfig, "duplicate id", ""), want: 2},
		{name: "publish errors are runtime fatals", err: New(ErrPublish, "publish failed", ""), want: 1},
		{name: "plain errors are runtime fatals", err: fmt.Errorf("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := WrapWithCode(fmt.Errorf("exec: \"xsetroot\": executable file not found"), ErrPublish,
		"Couldn't update the root window title",
		"Install xsetroot or switch to the terminal target.")

	out := err.Error()
	require.NotEmpty(t, out)

	// Message first, then cause, then suggestion.
	msgIdx := indexOf(out, "Couldn't update the root window title")
	causeIdx := indexOf(out, "executable file not found")
	fixIdx := indexOf(out, "Install xsetroot")
	assert.True(t, msgIdx < causeIdx)
	assert.True(t, causeIdx < fixIdx)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
