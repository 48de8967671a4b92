package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"DMChat/consts"
	rediskey "DMChat/consts/redisKey"
	"DMChat/pkg/logger"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	redisLimitTimeout = 50 * time.Millisecond
	localLimiterSize  = 10000
)

// luaTokenBucket Redis 令牌桶，原子地补充并扣减令牌
//
//	KEYS[1]: 限流 key
//	ARGV[1]: 当前时间戳 (毫秒)
//	ARGV[2]: 桶容量
//	ARGV[3]: 每秒产生的令牌数
//	ARGV[4]: 本次消耗的令牌数
//
// 返回 1 允许通过，0 令牌不足
const luaTokenBucket = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local info = redis.call('HMGET', key, 'tokens', 'last_time')
local current_tokens = tonumber(info[1])
local last_time = tonumber(info[2])

if current_tokens == nil then
    current_tokens = capacity
end
if last_time == nil then
    last_time = now
end

local time_diff = math.max(0, now - last_time)
local new_tokens = math.floor((time_diff * rate) / 1000)
if new_tokens > 0 then
    current_tokens = math.min(capacity, current_tokens + new_tokens)
    last_time = now
end

local allowed = 0
if current_tokens >= requested then
    current_tokens = current_tokens - requested
    allowed = 1
end

redis.call('HMSET', key, 'tokens', current_tokens, 'last_time', last_time)

local fill_time = math.ceil(capacity / rate)
local ttl = math.max(60, fill_time * 2)
redis.call('EXPIRE', key, ttl)

return allowed
`

// RateLimiter IP 级令牌桶。
// Redis 可用时多实例共享限流状态；Redis 未启用或异常时退化为进程内限流，
// 进程内限流器按 IP 保存在 LRU 中，避免长时间运行后无限增长。
type RateLimiter struct {
	mu          sync.RWMutex
	redisClient *redis.Client
	rate        float64
	burst       int
	local       *lru.Cache[string, *rate.Limiter]
	localMu     sync.Mutex
}

// NewRateLimiter rps 每秒令牌数，burst 桶容量
func NewRateLimiter(rps float64, burst int, redisClient *redis.Client) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	cache, _ := lru.New[string, *rate.Limiter](localLimiterSize)
	return &RateLimiter{
		redisClient: redisClient,
		rate:        rps,
		burst:       burst,
		local:       cache,
	}
}

// SetRedisClient 运行中切换 Redis 客户端，nil 表示只用进程内限流
func (r *RateLimiter) SetRedisClient(client *redis.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redisClient = client
}

// Allow 判断 ip 是否允许通过
func (r *RateLimiter) Allow(ctx context.Context, ip string) bool {
	if r.rate <= 0 {
		return true
	}

	r.mu.RLock()
	client := r.redisClient
	r.mu.RUnlock()
	if client == nil {
		return r.allowLocal(ip)
	}

	redisCtx, cancel := context.WithTimeout(ctx, redisLimitTimeout)
	defer cancel()

	key := rediskey.RateLimitIPKey(ip)
	res, err := client.Eval(redisCtx, luaTokenBucket, []string{key}, time.Now().UnixMilli(), r.burst, r.rate, 1).Result()
	if err != nil {
		logger.Warn(ctx, "Redis 限流检查失败，降级为进程内限流",
			logger.String("key", key),
			logger.ErrorField("error", err),
		)
		return r.allowLocal(ip)
	}

	allowed, ok := res.(int64)
	if !ok {
		logger.Warn(ctx, "Redis 限流返回值类型错误，降级放行",
			logger.String("key", key),
			logger.Any("result", res),
		)
		return true
	}
	return allowed == 1
}

func (r *RateLimiter) allowLocal(ip string) bool {
	r.localMu.Lock()
	limiter, ok := r.local.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(r.rate), r.burst)
		r.local.Add(ip, limiter)
	}
	r.localMu.Unlock()
	return limiter.Allow()
}

// IPRateLimitMiddleware 超限返回 429
func IPRateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		ip := GetClientIP(c)
		if ip == "" {
			c.Next()
			return
		}

		if !limiter.Allow(c.Request.Context(), ip) {
			logger.Warn(NewContextWithGin(c), "IP 请求被限流",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
			)
			result.AbortWithStatus(c, http.StatusTooManyRequests, consts.CodeTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}
