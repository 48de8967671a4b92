package async

import (
	"context"
	"sync"
	"testing"
	"time"

	"DMChat/config"
	"DMChat/pkg/ctxmeta"
	"DMChat/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var asyncLoggerOnce sync.Once

func initAsyncTestLogger() {
	asyncLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

func TestSubmitBeforeInit(t *testing.T) {
	initAsyncTestLogger()
	require.NoError(t, Release())

	err := Submit(func() {})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRunSafeCarriesMetadataAndRecoversPanic(t *testing.T) {
	initAsyncTestLogger()
	require.NoError(t, Init(config.DefaultAsyncConfig()))
	t.Cleanup(func() { _ = Release() })

	parent, cancel := context.WithCancel(ctxmeta.WithUserID(ctxmeta.WithTraceID(context.Background(), "t-1"), 42))

	type observed struct {
		traceID string
		userID  int64
		err     error
	}
	release := make(chan struct{})
	got := make(chan observed, 1)
	RunSafe(parent, func(ctx context.Context) {
		<-release
		uid, _ := ctxmeta.UserID(ctx)
		got <- observed{traceID: ctxmeta.TraceID(ctx), userID: uid, err: ctx.Err()}
	}, time.Second)
	// 父 ctx 取消不影响已投递的任务
	cancel()
	close(release)

	select {
	case o := <-got:
		assert.Equal(t, "t-1", o.traceID)
		assert.Equal(t, int64(42), o.userID)
		assert.NoError(t, o.err)
	case <-time.After(2 * time.Second):
		t.Fatal("task not executed")
	}

	done := make(chan struct{})
	RunSafe(context.Background(), func(context.Context) {
		defer close(done)
		panic("boom")
	}, time.Second)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("panic task not executed")
	}
}
