package router

import (
	"net/http"

	"DMChat/apps/chat/internal/handler"
	"DMChat/apps/chat/internal/middleware"
	"DMChat/config"
	"DMChat/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Auth    *handler.AuthHandler
	Friend  *handler.FriendHandler
	Message *handler.MessageHandler
	WS      *handler.WSHandler
}

// InitRouter 初始化路由
// verifier: 会话校验（依赖注入）；limiter 为 nil 时不做 IP 限流
func InitRouter(cfg config.ServerConfig, h Handlers, verifier middleware.SessionVerifier, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()

	// 恢复中间件
	r.Use(middleware.GinRecovery(true))

	// 追踪中间件 (生成 trace_id)
	r.Use(util.TraceLogger())

	// 客户端 IP 中间件
	r.Use(middleware.ClientIPMiddleware())

	// 日志中间件
	r.Use(middleware.GinLogger())

	// Prometheus 监控中间件
	r.Use(middleware.PrometheusMiddleware())

	// 跨域中间件
	r.Use(middleware.CorsMiddleware(cfg.AllowedOrigins))

	// 健康检查（无需认证）
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Prometheus 指标暴露接口
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket 在 handler 内自行鉴权，不经过超时中间件
	r.GET("/ws", middleware.IPRateLimitMiddleware(limiter), h.WS.ServeWS)

	api := r.Group("")
	api.Use(middleware.IPRateLimitMiddleware(limiter))
	api.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))
	{
		// 公开接口
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)

		// 需要认证的接口
		auth := api.Group("")
		auth.Use(middleware.JWTAuthMiddleware(verifier))
		{
			auth.POST("/logout", h.Auth.Logout)

			auth.POST("/search_friend", h.Friend.SearchFriend)
			auth.POST("/handle_friend_request", h.Friend.HandleFriendRequest)
			auth.GET("/friends", h.Friend.ListFriends)
			auth.GET("/friend_requests", h.Friend.ListFriendRequests)

			auth.GET("/messages/:friendId", h.Message.History)
		}
	}

	return r
}
