package repository

import (
	"DMChat/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ==================== Repository 层统一错误定义 ====================

var (
	// ErrRecordNotFound 记录不存在
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey 唯一键冲突
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrDatabase 数据库操作错误
	ErrDatabase = errors.New("database error")

	// ErrRedisNil Redis Key 不存在
	ErrRedisNil = errors.New("redis: key not found")

	// ErrRedis Redis 操作错误
	ErrRedis = errors.New("redis error")
)

// wrapError 按 rules 映射已知错误，未命中时包装为 defaultErr 并保留原始信息。
func wrapError(err error, rules map[error]error, defaultErr error) error {
	if err == nil {
		return nil
	}
	for source, target := range rules {
		if errors.Is(err, source) {
			return target
		}
	}
	return fmt.Errorf("%w: %v", defaultErr, err)
}

var (
	dbErrorRules = map[error]error{
		gorm.ErrRecordNotFound: ErrRecordNotFound,
		gorm.ErrDuplicatedKey:  ErrDuplicateKey,
	}

	redisErrorRules = map[error]error{
		redis.Nil: ErrRedisNil,
	}
)

// WrapDBError 包装数据库错误
func WrapDBError(err error) error {
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return wrapError(err, dbErrorRules, ErrDatabase)
}

// WrapRedisError 包装 Redis 错误
func WrapRedisError(err error) error {
	return wrapError(err, redisErrorRules, ErrRedis)
}

// LogRedisError 记录 Redis 错误
func LogRedisError(ctx context.Context, err error) {
	logger.Error(ctx, "Redis 操作错误", logger.ErrorField("error", err))
}

// isUniqueViolation 兜底识别驱动未翻译的唯一键冲突。
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
