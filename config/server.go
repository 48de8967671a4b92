package config

import "time"

// ServerConfig HTTP/WebSocket 服务配置。
type ServerConfig struct {
	Addr              string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	GinMode           string        `json:"ginMode" yaml:"ginMode" mapstructure:"gin_mode"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout" mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout" mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout" mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout" mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout" mapstructure:"shutdown_timeout"`
	RequestTimeout    time.Duration `json:"requestTimeout" yaml:"requestTimeout" mapstructure:"request_timeout"` // HTTP 接口处理超时，不作用于 /ws
	AllowedOrigins    []string      `json:"allowedOrigins" yaml:"allowedOrigins" mapstructure:"allowed_origins"` // 为空时放开 WebSocket 来源校验
	RateLimitRPS      float64       `json:"rateLimitRps" yaml:"rateLimitRps" mapstructure:"rate_limit_rps"`
	RateLimitBurst    int           `json:"rateLimitBurst" yaml:"rateLimitBurst" mapstructure:"rate_limit_burst"`
}

// DefaultServerConfig 返回默认服务配置。
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":5000",
		GinMode:           "release",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		RequestTimeout:    10 * time.Second,
		RateLimitRPS:      10,
		RateLimitBurst:    20,
	}
}
