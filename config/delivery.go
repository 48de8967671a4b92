package config

import "time"

// DeliveryConfig 消息投递链路配置。
type DeliveryConfig struct {
	// RequireFriendship 为 true 时，发送与历史查询都要求双方为已接受的好友。
	// 两条链路始终使用同一开关，不允许单独配置。
	RequireFriendship bool `json:"requireFriendship" yaml:"requireFriendship" mapstructure:"require_friendship"`

	MaxContentLength int `json:"maxContentLength" yaml:"maxContentLength" mapstructure:"max_content_length"` // 单条消息最大字符数
	UserCacheSize    int `json:"userCacheSize" yaml:"userCacheSize" mapstructure:"user_cache_size"`          // 已知用户 LRU 容量

	// 单连接上行限速：每秒消息数与突发容量
	SendRate  float64 `json:"sendRate" yaml:"sendRate" mapstructure:"send_rate"`
	SendBurst int     `json:"sendBurst" yaml:"sendBurst" mapstructure:"send_burst"`

	// 持久化熔断：连续失败达到阈值后熔断 BreakerOpenTimeout
	BreakerMaxFailures uint32        `json:"breakerMaxFailures" yaml:"breakerMaxFailures" mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `json:"breakerOpenTimeout" yaml:"breakerOpenTimeout" mapstructure:"breaker_open_timeout"`
}

// DefaultDeliveryConfig 返回默认投递配置。
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		RequireFriendship:  true,
		MaxContentLength:   4000,
		UserCacheSize:      4096,
		SendRate:           5,
		SendBurst:          20,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 10 * time.Second,
	}
}
