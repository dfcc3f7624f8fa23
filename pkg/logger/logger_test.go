package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, false, true)
	log.Debug("hidden")
	log.Info("merge: complete", "rows", 3, "empty", "")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "merge: complete")
	require.Contains(t, out, "rows=3")
	require.NotContains(t, out, "empty=")
	require.NotContains(t, out, "\x1b[", "no color escapes")
}

func TestNewVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, true, true).Debug("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNewRunTees(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	NewRun(&console, &file, false).Warn("gates: records excluded from outputs", "stage", "qc")
	require.Contains(t, console.String(), "stage=qc")
	require.Equal(t, console.String(), file.String())
}

func TestFormatRFC3339Millis(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 3, 15, 9, 4, 5, 123_456_789, time.FixedZone("PDT", -7*3600))
	require.Equal(t, "2024-03-15T16:04:05.123Z", formatRFC3339Millis(ts))
}
