package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"DMChat/config"

	goredis "github.com/redis/go-redis/v9"
)

// ErrDisabled 表示配置中未启用 Redis（addr 为空）。
var ErrDisabled = errors.New("redis disabled")

var (
	mu     sync.RWMutex
	global *goredis.Client
)

// Build 根据配置创建客户端并 Ping 一次确认可用。
func Build(cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrDisabled
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	timeout := cfg.DialTimeout + cfg.ReadTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// ReplaceGlobal 设置全局客户端（可为 nil，表示降级为无 Redis 模式）。
func ReplaceGlobal(c *goredis.Client) {
	mu.Lock()
	defer mu.Unlock()
	global = c
}

// Client 返回全局客户端，未启用时为 nil。
func Client() *goredis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
