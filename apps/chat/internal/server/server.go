package server

import (
	"context"
	"net/http"

	"DMChat/config"

	"github.com/gin-gonic/gin"
)

// Server 对 http.Server 的轻量封装，集中管理启动和优雅关闭
type Server struct {
	httpServer *http.Server
}

// New 包装路由为 HTTP Server，WebSocket 连接升级后不受读写超时影响
func New(cfg config.ServerConfig, engine *gin.Engine) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    1 << 20,
		},
	}
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start 启动 HTTP 监听。
// 正常优雅关闭时返回 http.ErrServerClosed，调用方应将其视为正常退出。
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown 优雅停机，调用方需要传入带超时的 ctx
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
