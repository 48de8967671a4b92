package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"DMChat/consts"
	"DMChat/pkg/logger"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
)

// GinRecovery 捕获 handler panic，客户端断开导致的写失败不返回响应
func GinRecovery(stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			ctx := NewContextWithGin(c)

			if isBrokenPipe(r) {
				logger.Warn(ctx, "客户端连接已断开",
					logger.String("path", c.Request.URL.Path),
					logger.Any("error", r),
				)
				c.Abort()
				return
			}

			fields := []logger.Field{
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
				logger.Any("error", r),
			}
			if stack {
				fields = append(fields, logger.String("stack", string(debug.Stack())))
			}
			logger.Error(ctx, "请求处理 panic", fields...)
			result.AbortWithStatus(c, http.StatusInternalServerError, consts.CodeInternalError, "")
		}()
		c.Next()
	}
}

func isBrokenPipe(r any) bool {
	err, ok := r.(error)
	if !ok {
		return false
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if !errors.As(opErr.Err, &sysErr) {
		return false
	}
	msg := strings.ToLower(sysErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}
