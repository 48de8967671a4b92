package config

import "time"

// AsyncConfig 协程池配置。
// 说明：只用于尽力而为的旁路任务（活跃时间写入等），不参与消息投递主链路。
type AsyncConfig struct {
	PoolSize         int           `json:"poolSize" yaml:"poolSize" mapstructure:"pool_size"`                          // 协程池容量
	MaxBlockingTasks int           `json:"maxBlockingTasks" yaml:"maxBlockingTasks" mapstructure:"max_blocking_tasks"` // 最大阻塞任务数（0 表示不限制）
	ExpiryDuration   time.Duration `json:"expiryDuration" yaml:"expiryDuration" mapstructure:"expiry_duration"`        // 空闲 worker 过期时间
	Nonblocking      bool          `json:"nonblocking" yaml:"nonblocking" mapstructure:"nonblocking"`                  // 是否非阻塞提交
	ReleaseTimeout   time.Duration `json:"releaseTimeout" yaml:"releaseTimeout" mapstructure:"release_timeout"`        // 优雅释放等待时间
}

// DefaultAsyncConfig 返回本地开发的默认配置。
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		PoolSize:         128,
		MaxBlockingTasks: 1024,
		ExpiryDuration:   10 * time.Second,
		Nonblocking:      true,
		ReleaseTimeout:   5 * time.Second,
	}
}
