package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	Setup("warn", &buf)
	t.Cleanup(func() { SetLevel("info") })

	L.Info("dropped")
	L.Warn("kept", "n", 1)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "WARN", entry["level"])
}

func TestForSession_AddsSessionID(t *testing.T) {
	var buf bytes.Buffer
	Setup("debug", &buf)
	t.Cleanup(func() { SetLevel("info") })

	ForSession("abc").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "abc", entry["session_id"])
}
