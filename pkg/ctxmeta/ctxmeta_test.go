package ctxmeta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithTraceID(ctx, "t-1")
	ctx = WithUserID(ctx, 42)
	ctx = WithChannelID(ctx, 7)
	ctx = WithClientIP(ctx, "10.0.0.1")

	assert.Equal(t, "t-1", TraceID(ctx))
	uid, ok := UserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), uid)
	cid, ok := ChannelID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), cid)
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))
}

func TestMissingValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceID(ctx))
	_, ok := UserID(ctx)
	assert.False(t, ok)
}
