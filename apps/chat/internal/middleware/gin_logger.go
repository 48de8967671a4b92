package middleware

import (
	"context"
	"time"

	"DMChat/pkg/ctxmeta"
	"DMChat/pkg/logger"

	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 2 * time.Second

// NewContextWithGin 把 trace_id、user_id、client_ip 带到日志使用的 context
func NewContextWithGin(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if ctxmeta.TraceID(ctx) == "" {
		if traceID := ctxmeta.TraceIDFromGin(c); traceID != "" {
			ctx = ctxmeta.WithTraceID(ctx, traceID)
		}
	}
	if userID, ok := GetUserID(c); ok {
		ctx = ctxmeta.WithUserID(ctx, userID)
	}
	if ip := ClientIPFromGinContext(c); ip != "" {
		ctx = ctxmeta.WithClientIP(ctx, ip)
	}
	return ctx
}

// GinLogger 只记录服务端错误(5xx)和慢请求，正常请求不记录
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		status := c.Writer.Status()
		if status < 500 && cost <= slowRequestThreshold {
			return
		}

		logger.Warn(NewContextWithGin(c), "慢请求或服务端错误",
			logger.Int("status", status),
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.String("ip", GetClientIP(c)),
			logger.String("user-agent", c.Request.UserAgent()),
			logger.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
			logger.Duration("cost", cost),
		)
	}
}
