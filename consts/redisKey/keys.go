package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// UserActiveTTL 用户活跃时间缓存 TTL
	UserActiveTTL = 7 * 24 * time.Hour
)

// ==================== Key 构造函数 ====================

// AccessTokenKey 生成会话 Token Key: auth:at:{user_id}:{session_id}
// value 为 md5(token)，登出时删除即可让 token 立即失效
func AccessTokenKey(userID int64, sessionID string) string {
	return fmt.Sprintf("auth:at:%d:%s", userID, sessionID)
}

// UserActiveKey 生成用户活跃时间 Key: user:active:{user_id}
// hash 结构：field=channel_id, value=unix 秒
func UserActiveKey(userID int64) string {
	return fmt.Sprintf("user:active:%d", userID)
}

// RateLimitIPKey 生成 IP 限流 Key: rate:limit:ip:{ip}
func RateLimitIPKey(ip string) string {
	return fmt.Sprintf("rate:limit:ip:%s", ip)
}
