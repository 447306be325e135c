package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := runMain(&stdout, &stderr, append([]string{"memspeed"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestApp(t *testing.T) {
	t.Run("invalid threads fails", func(t *testing.T) {
		stdout, _, err := runApp(t, "--threads", "0", "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "thread count must be positive")
		assert.Empty(t, stdout)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, _, err := runApp(t, "--log-level", "loud")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--log-level")
	})

	t.Run("scale fallback warns", func(t *testing.T) {
		// The fallback warning precedes the run; zero threads stops it
		// before any workload.
		stdout, stderr, err := runApp(t, "--threads", "0", "abc")
		require.Error(t, err)
		assert.Contains(t, stderr, "invalid scale factor, using default")
		assert.Contains(t, stderr, "input=abc")
		assert.Empty(t, stdout)
	})

	t.Run("json logs", func(t *testing.T) {
		_, stderr, err := runApp(t, "--log-json", "--threads", "0", "0")
		require.Error(t, err)
		assert.Contains(t, stderr, `"input":"0"`)
	})

	t.Run("negative scale warns", func(t *testing.T) {
		stdout, stderr, err := runApp(t, "--threads", "0", "-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "thread count must be positive")
		assert.Contains(t, stderr, "invalid scale factor, using default")
		assert.Contains(t, stderr, "input=-1")
		assert.Empty(t, stdout)
	})

	t.Run("negative flag value stays a flag value", func(t *testing.T) {
		_, stderr, err := runApp(t, "--threads", "-2", "3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "thread count must be positive")
		assert.NotContains(t, stderr, "invalid scale factor")
	})

	t.Run("extra arguments warn", func(t *testing.T) {
		stdout, stderr, err := runApp(t, "--threads", "0", "2", "extra")
		require.Error(t, err)
		assert.Contains(t, stderr, "ignoring extra arguments")
		assert.Contains(t, stderr, "extra")
		assert.Empty(t, stdout)
	})

	t.Run("unknown flag keeps stdout clean", func(t *testing.T) {
		stdout, _, err := runApp(t, "--bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bogus")
		assert.Empty(t, stdout)
	})

	t.Run("help", func(t *testing.T) {
		stdout, _, err := runApp(t, "--help")
		require.NoError(t, err)
		assert.Contains(t, stdout, "--memory-limit")
		assert.Contains(t, stdout, "[scale]")
		assert.Contains(t, stdout, "(default: 42)")
	})
}

func TestApp_Run(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the full benchmark")
	}

	stdout, stderr, err := runApp(t, "--verify", "1")
	require.NoError(t, err)
	assert.Regexp(t, `^\d+\.\d{3}\n$`, stdout)
	assert.Empty(t, stderr)
}

func TestScaleArgs(t *testing.T) {
	app := newApp(nil, nil)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", []string{"memspeed"}, []string{"memspeed"}},
		{"positive scale", []string{"memspeed", "2"}, []string{"memspeed", "2"}},
		{"negative scale", []string{"memspeed", "-1"}, []string{"memspeed", "--", "-1"}},
		{"negative scale after flags", []string{"memspeed", "--verify", "--threads", "2", "-7"}, []string{"memspeed", "--verify", "--threads", "2", "--", "-7"}},
		{"negative flag value", []string{"memspeed", "--threads", "-2"}, []string{"memspeed", "--threads", "-2"}},
		{"flag with inline value", []string{"memspeed", "--threads=2", "-3"}, []string{"memspeed", "--threads=2", "--", "-3"}},
		{"already terminated", []string{"memspeed", "--", "-1"}, []string{"memspeed", "--", "-1"}},
		{"after positional", []string{"memspeed", "abc", "-1"}, []string{"memspeed", "abc", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scaleArgs(app, tt.args))
		})
	}
}
