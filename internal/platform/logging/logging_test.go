package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestSetup_JSONIncludesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("academy", "1.2.3", "json", "info", &buf)

	logger.Info("hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "academy", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "v", entry["k"])
	assert.NotContains(t, entry, "trace_id")
}

func TestSetup_StampsSpanContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("academy", "dev", "json", "info", &buf)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(),
		trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID}))

	logger.With("request", "r1").InfoContext(ctx, "traced")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
	assert.Equal(t, "r1", entry["request"])
	assert.Equal(t, "academy", entry["service"])
}

func TestSetup_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("academy", "dev", "text", "warn", &buf)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestLogError_OopsErrorCarriesCode(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("academy", "dev", "json", "debug", &buf)

	err := oops.Code("USER_INSERT_FAILED").With("username", "t1").Wrap(errors.New("connection reset"))
	LogError(logger, "request failed", err, "path", "/auth/register")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "USER_INSERT_FAILED", entry["code"])
	assert.Equal(t, "/auth/register", entry["path"])
	assert.Contains(t, entry["error"], "connection reset")
}

func TestLogError_PlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("academy", "dev", "json", "debug", &buf)

	LogError(logger, "boom", errors.New("plain"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "plain", entry["error"])
	assert.NotContains(t, entry, "code")
}
