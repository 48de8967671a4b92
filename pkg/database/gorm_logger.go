package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DMChat/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 把 gorm 的日志转到 zap。
// 只记录慢 SQL 与非 RecordNotFound 的错误，正常查询不输出。
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(slowThreshold time.Duration) *GormLogger {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &GormLogger{level: gormlogger.Warn, slowThreshold: slowThreshold}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		logger.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		logger.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		logger.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	cost := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		logger.Error(ctx, "SQL 执行失败",
			logger.String("sql", sql),
			logger.Int64("rows", rows),
			logger.Duration("cost", cost),
			logger.ErrorField("error", err),
		)
	case cost > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		logger.Warn(ctx, "慢 SQL",
			logger.String("sql", sql),
			logger.Int64("rows", rows),
			logger.Duration("cost", cost),
		)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		logger.Debug(ctx, "SQL",
			logger.String("sql", sql),
			logger.Int64("rows", rows),
			logger.Duration("cost", cost),
		)
	}
}
