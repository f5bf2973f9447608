package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestContextFields(t *testing.T) {
	ctx := WithStage(WithBuildID(context.Background(), "b-1"), "load")
	lc := GetContext(ctx)
	assert.Equal(t, "b-1", lc.BuildID)
	assert.Equal(t, "load", lc.Stage)

	ctx = WithStage(ctx, "derive")
	assert.Equal(t, "derive", GetContext(ctx).Stage)
	assert.Equal(t, "b-1", GetContext(ctx).BuildID)
}

func TestInfoContext_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), captureLogger(&buf))
	ctx = WithStage(WithBuildID(ctx, "b-2"), "write")

	InfoContext(ctx, "Stage done", slog.Int("count", 3))

	out := buf.String()
	assert.Contains(t, out, "build_id=b-2")
	assert.Contains(t, out, "stage=write")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, `msg="Stage done"`)
}

func TestDebugContext_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := WithLogger(context.Background(), logger)

	DebugContext(ctx, "hidden")
	WarnContext(ctx, "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithBuildID(WithLogger(context.Background(), captureLogger(&buf)), "b-3")

	ContextLogger(ctx).Info("hello")
	assert.Contains(t, buf.String(), "build_id=b-3")
}

func TestLogger_DefaultsToSlogDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), Logger(context.Background()))
}
