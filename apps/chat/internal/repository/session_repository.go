package repository

import (
	rediskey "DMChat/consts/redisKey"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled Redis 未启用，会话只做 JWT 校验
var ErrRedisDisabled = errors.New("redis client not configured")

// sessionRepositoryImpl 会话 Token 与活跃时间的数据访问层实现
type sessionRepositoryImpl struct {
	redisClient *redis.Client
}

// NewSessionRepository 创建会话仓储实例，redisClient 可为 nil
func NewSessionRepository(redisClient *redis.Client) ISessionRepository {
	return &sessionRepositoryImpl{redisClient: redisClient}
}

// md5Hash 计算字符串的 MD5 哈希
func md5Hash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// StoreAccessToken 存储 MD5 摘要以节省内存
func (r *sessionRepositoryImpl) StoreAccessToken(ctx context.Context, userID int64, sessionID, token string, expire time.Duration) error {
	if r.redisClient == nil {
		return nil
	}
	key := rediskey.AccessTokenKey(userID, sessionID)
	if err := r.redisClient.Set(ctx, key, md5Hash(token), expire).Err(); err != nil {
		LogRedisError(ctx, err)
		return WrapRedisError(err)
	}
	return nil
}

func (r *sessionRepositoryImpl) VerifyAccessToken(ctx context.Context, userID int64, sessionID, token string) (bool, error) {
	if r.redisClient == nil {
		return false, ErrRedisDisabled
	}
	key := rediskey.AccessTokenKey(userID, sessionID)
	storedHash, err := r.redisClient.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Key 不存在：已登出或已过期
			return false, nil
		}
		return false, WrapRedisError(err)
	}
	return storedHash == md5Hash(token), nil
}

func (r *sessionRepositoryImpl) DeleteAccessToken(ctx context.Context, userID int64, sessionID string) error {
	if r.redisClient == nil {
		return nil
	}
	if err := r.redisClient.Del(ctx, rediskey.AccessTokenKey(userID, sessionID)).Err(); err != nil {
		LogRedisError(ctx, err)
		return WrapRedisError(err)
	}
	return nil
}

// SetActiveTimestamp 写入 user:active:{user_id} 哈希并续期
func (r *sessionRepositoryImpl) SetActiveTimestamp(ctx context.Context, userID, channelID int64, ts int64) error {
	if r.redisClient == nil {
		return nil
	}
	key := rediskey.UserActiveKey(userID)
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, strconv.FormatInt(channelID, 10), ts)
	pipe.Expire(ctx, key, rediskey.UserActiveTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return WrapRedisError(err)
	}
	return nil
}
