package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	logger := New("info", "text", &bytes.Buffer{})
	assert.Same(t, logger, FromContext(WithLogger(context.Background(), logger)))
}

func TestNewLevelsAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New("bogus", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "template", "a")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "a", rec["template"])
}
