package config

import "time"

// RedisConfig Redis 连接配置。
// Addr 为空表示不启用 Redis，相关能力（会话校验、活跃时间、分布式限流）降级。
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	Password     string        `json:"password" yaml:"password" mapstructure:"password"`
	DB           int           `json:"db" yaml:"db" mapstructure:"db"`
	PoolSize     int           `json:"poolSize" yaml:"poolSize" mapstructure:"pool_size"`
	DialTimeout  time.Duration `json:"dialTimeout" yaml:"dialTimeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout" mapstructure:"write_timeout"`
}

// DefaultRedisConfig 返回默认 Redis 配置（默认关闭）。
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "",
		DB:           0,
		PoolSize:     20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  200 * time.Millisecond,
		WriteTimeout: 200 * time.Millisecond,
	}
}
