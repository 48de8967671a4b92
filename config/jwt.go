package config

import "time"

// JWTConfig 会话令牌配置。
type JWTConfig struct {
	Secret string        `json:"secret" yaml:"secret" mapstructure:"secret"`
	Issuer string        `json:"issuer" yaml:"issuer" mapstructure:"issuer"`
	TTL    time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// DefaultJWTConfig 本地开发默认值，生产环境必须通过配置文件或环境变量覆盖 Secret。
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		Secret: "dmchat-dev-secret",
		Issuer: "dmchat",
		TTL:    72 * time.Hour,
	}
}
