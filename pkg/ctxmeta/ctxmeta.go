// Package ctxmeta 统一管理 context 中透传的请求元数据（trace_id/user_id/channel_id/client_ip）。
package ctxmeta

import (
	"context"

	"github.com/gin-gonic/gin"
)

type ctxKey string

const (
	traceIDKey   ctxKey = "trace_id"
	userIDKey    ctxKey = "user_id"
	channelIDKey ctxKey = "channel_id"
	clientIPKey  ctxKey = "client_ip"
)

// GinTraceIDKey 是 gin.Context 中 trace_id 的键名（由 util.TraceLogger 写入）。
const GinTraceIDKey = "trace_id"

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(traceIDKey).(string)
	return v
}

func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID 返回绑定在 ctx 上的用户 ID，未绑定时 ok=false。
func UserID(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(userIDKey).(int64)
	return v, ok
}

func WithChannelID(ctx context.Context, channelID int64) context.Context {
	return context.WithValue(ctx, channelIDKey, channelID)
}

func ChannelID(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(channelIDKey).(int64)
	return v, ok
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func ClientIP(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

// TraceIDFromGin 读取 TraceLogger 中间件写入的 trace_id。
func TraceIDFromGin(c *gin.Context) string {
	return c.GetString(GinTraceIDKey)
}
