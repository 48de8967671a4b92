package middleware

import (
	"net"
	"strings"

	"DMChat/pkg/ctxmeta"

	"github.com/gin-gonic/gin"
)

const (
	headerXRealIP       = "X-Real-IP"
	headerXForwardedFor = "X-Forwarded-For"
	ctxKeyClientIP      = "client_ip"
)

// GetClientIP 优先级：X-Real-IP > X-Forwarded-For 第一个 > RemoteAddr
func GetClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader(headerXRealIP)); ip != "" && net.ParseIP(ip) != nil {
		return ip
	}
	if xff := c.GetHeader(headerXForwardedFor); xff != "" {
		first := xff
		if idx := strings.Index(xff, ","); idx != -1 {
			first = xff[:idx]
		}
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}
	return c.ClientIP()
}

// ClientIPMiddleware 注入 IP 到 gin.Context 与 request context
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := GetClientIP(c)
		c.Set(ctxKeyClientIP, ip)
		c.Request = c.Request.WithContext(ctxmeta.WithClientIP(c.Request.Context(), ip))
		c.Next()
	}
}

// ClientIPFromGinContext 读取 ClientIPMiddleware 注入的 IP
func ClientIPFromGinContext(c *gin.Context) string {
	if ip, exists := c.Get(ctxKeyClientIP); exists {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return ""
}
