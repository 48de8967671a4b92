package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"DMChat/consts"
	"DMChat/pkg/logger"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
)

// TimeoutMiddleware 请求超时控制。
// 不开启额外 goroutine，依赖下游感知 ctx；handler 未写响应时兜底返回超时。
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			logger.Warn(NewContextWithGin(c), "请求处理超时",
				logger.String("path", c.Request.URL.Path),
				logger.Duration("timeout", timeout),
			)
			result.FailWithStatus(c, http.StatusGatewayTimeout, consts.CodeTimeoutError, "")
		}
	}
}
