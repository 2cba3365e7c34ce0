package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = zerolog.New(&buf)
	t.Cleanup(func() { Logger = prev })

	ctx := ContextWithRequestID(context.Background(), "req-1")
	Info(ctx).Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "hello", line["message"])
	assert.NotContains(t, line, "trace_id")
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, SetLevel("WARN"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	assert.Error(t, SetLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
