package util

import (
	"DMChat/pkg/ctxmeta"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-ID"

// TraceLogger 追踪中间件，生成或获取 trace_id 并存入 Gin 上下文
func TraceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 优先沿用反向代理传入的 ID
		traceId := c.GetHeader(HeaderXRequestID)
		if traceId == "" {
			traceId = uuid.New().String()
		}

		c.Set(ctxmeta.GinTraceIDKey, traceId)
		// 同时写入 request context，WebSocket 连接级 context 从这里继承
		c.Request = c.Request.WithContext(ctxmeta.WithTraceID(c.Request.Context(), traceId))
		c.Header(HeaderXRequestID, traceId)

		c.Next()
	}
}

// NewUUID 生成新的 UUID
func NewUUID() string {
	return uuid.New().String()
}
