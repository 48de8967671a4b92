package middleware

import (
	"net/http"
	"strconv"
	"time"

	"DMChat/apps/chat/internal/metrics"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware 统计请求数与耗时。
// path 使用路由模板（如 /messages/:friendId），未命中路由时归为 unmatched。
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())

		if status == http.StatusForbidden {
			metrics.AuthRejections.WithLabelValues("http_forbidden").Inc()
		}
	}
}
