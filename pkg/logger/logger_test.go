package logger

import (
	"context"
	"errors"
	"testing"

	"DMChat/config"
	"DMChat/pkg/ctxmeta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextMetaAppended(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := global
	ReplaceGlobal(zap.New(core))
	t.Cleanup(func() { global = prev })

	ctx := ctxmeta.WithTraceID(context.Background(), "t-1")
	ctx = ctxmeta.WithUserID(ctx, 5)
	ctx = ctxmeta.WithChannelID(ctx, 42)
	ctx = ctxmeta.WithClientIP(ctx, "10.0.0.1")

	Warn(ctx, "hello", ErrorField("error", errors.New("boom")))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, int64(5), fields["user_id"])
	assert.Equal(t, int64(42), fields["channel_id"])
	assert.Equal(t, "10.0.0.1", fields["client_ip"])
	assert.Equal(t, "boom", fields["error"])
}

func TestNilLoggerIsSafe(t *testing.T) {
	prev := global
	global = nil
	t.Cleanup(func() { global = prev })

	assert.NotPanics(t, func() {
		Info(context.Background(), "no logger yet")
	})
}

func TestBuildFallsBackOnBadLevel(t *testing.T) {
	cfg := config.DefaultLoggerConfig()
	cfg.Level = "not-a-level"

	l, err := Build(cfg)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
