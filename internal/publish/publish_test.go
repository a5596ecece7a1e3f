package publish

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-ajensen/bb/internal/errors"
)

func TestNewKnownKinds(t *testing.T) {
	for _, kind := range []string{KindTerminal, KindXTitle, KindTmux} {
		p, err := New(kind)
		require.NoError(t, err, kind)
		assert.NotNil(t, p, kind)
	}
}

func TestNewUnknownKindIsConfigError(t *testing.T) {
	p, err := New("hologram")

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "hologram")
}

func TestTerminalRewritesLineInPlace(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	require.NoError(t, term.Publish(" batt: 85% "))
	require.NoError(t, term.Publish(" batt: 84% "))

	out := buf.String()
	assert.Contains(t, out, "\r batt: 85% ")
	assert.Contains(t, out, "\r batt: 84% ")
}

func TestCommandPublisherSuccess(t *testing.T) {
	p := NewCommand("true", func(line string) []string { return nil })

	assert.NoError(t, p.Publish(" anything "))
}

func TestCommandPublisherFailureIncludesOutput(t *testing.T) {
	p := NewCommand("sh", func(line string) []string {
		return []string{"-c", "echo no display >&2; exit 3"}
	})

	err := p.Publish(" bar ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
}

func TestCommandPublisherMissingBinary(t *testing.T) {
	p := NewCommand("definitely-not-a-real-binary-xyz", func(line string) []string { return nil })

	assert.Error(t, p.Publish(" bar "))
}
