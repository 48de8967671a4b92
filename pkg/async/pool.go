package async

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"DMChat/config"
	"DMChat/pkg/ctxmeta"
	"DMChat/pkg/logger"

	"github.com/panjf2000/ants/v2"
)

var (
	global   *ants.Pool
	globalMu sync.RWMutex
	cfgCopy  config.AsyncConfig
)

// ErrNotInitialized 表示协程池尚未初始化。
var ErrNotInitialized = errors.New("async pool not initialized")

// Build 根据配置创建协程池实例。
func Build(cfg config.AsyncConfig) (*ants.Pool, error) {
	opts := []ants.Option{
		ants.WithMaxBlockingTasks(cfg.MaxBlockingTasks),
		ants.WithExpiryDuration(cfg.ExpiryDuration),
		ants.WithPanicHandler(func(p any) {
			logger.Error(context.Background(), "async task panic",
				logger.Any("panic", p),
				logger.String("stack", string(debug.Stack())),
			)
		}),
	}
	if cfg.Nonblocking {
		opts = append(opts, ants.WithNonblocking(true))
	}
	return ants.NewPool(cfg.PoolSize, opts...)
}

// Init 初始化全局协程池（仅需在进程启动时调用一次）。
func Init(cfg config.AsyncConfig) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return nil
	}
	p, err := Build(cfg)
	if err != nil {
		return err
	}
	global = p
	cfgCopy = cfg
	return nil
}

// Submit 将任务投递到全局协程池。
func Submit(task func()) error {
	globalMu.RLock()
	p := global
	globalMu.RUnlock()
	if p == nil {
		return ErrNotInitialized
	}
	return p.Submit(task)
}

// Release 优雅释放协程池资源（等待任务执行完）。
func Release() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		return nil
	}
	var err error
	if cfgCopy.ReleaseTimeout > 0 {
		err = global.ReleaseTimeout(cfgCopy.ReleaseTimeout)
	} else {
		global.Release()
	}
	global = nil
	return err
}

// detach 只保留日志需要的元数据，脱离父 ctx 的取消信号。
// 旁路任务常在请求或连接结束后才执行，不能跟随父 ctx 一起被取消。
func detach(parent context.Context) context.Context {
	ctx := context.Background()
	if parent == nil {
		return ctx
	}
	if traceID := ctxmeta.TraceID(parent); traceID != "" {
		ctx = ctxmeta.WithTraceID(ctx, traceID)
	}
	if userID, ok := ctxmeta.UserID(parent); ok {
		ctx = ctxmeta.WithUserID(ctx, userID)
	}
	if channelID, ok := ctxmeta.ChannelID(parent); ok {
		ctx = ctxmeta.WithChannelID(ctx, channelID)
	}
	return ctx
}

// RunSafe 以尽力而为的方式异步执行任务。
// 协程池未初始化或已满时任务被丢弃并记录日志，不会阻塞调用方。
func RunSafe(ctx context.Context, task func(ctx context.Context), timeout time.Duration) {
	if task == nil {
		return
	}
	if timeout <= 0 {
		timeout = time.Minute
	}

	baseCtx := detach(ctx)
	runCtx, cancel := context.WithTimeout(baseCtx, timeout)

	wrap := func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				logger.Error(runCtx, "async task panic",
					logger.Any("panic", r),
					logger.String("stack", string(debug.Stack())),
				)
			}
		}()

		task(runCtx)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			logger.Warn(runCtx, "async task timeout",
				logger.Duration("timeout", timeout),
			)
		}
	}

	if err := Submit(wrap); err != nil {
		cancel()
		logger.Warn(baseCtx, "async submit failed",
			logger.ErrorField("error", err),
			logger.Duration("timeout", timeout),
		)
	}
}
