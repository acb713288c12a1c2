package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil context is part of the contract
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	got := FromContext(ctx)
	require.NotNil(t, got)

	got.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	ctx = WithRunID(ctx, "run-42")

	assert.Equal(t, "run-42", RunID(ctx))
	assert.Empty(t, RunID(context.Background()))

	Ctx(ctx).Info().Msg("sharded")
	assert.Contains(t, buf.String(), "run-42")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	ctx = WithField(ctx, "watermark", "2026-08-01T00:00:00Z")

	Ctx(ctx).Info().Msg("snapshot")
	assert.Contains(t, buf.String(), "watermark")
}
