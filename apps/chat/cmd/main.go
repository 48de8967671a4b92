package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"DMChat/apps/chat/internal/delivery"
	"DMChat/apps/chat/internal/handler"
	"DMChat/apps/chat/internal/manager"
	"DMChat/apps/chat/internal/metrics"
	"DMChat/apps/chat/internal/middleware"
	"DMChat/apps/chat/internal/repository"
	"DMChat/apps/chat/internal/router"
	"DMChat/apps/chat/internal/server"
	"DMChat/apps/chat/internal/service"
	"DMChat/apps/chat/internal/svc"
	"DMChat/config"
	"DMChat/pkg/async"
	"DMChat/pkg/ctxmeta"
	"DMChat/pkg/logger"
	pkgredis "DMChat/pkg/redis"
	"DMChat/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

// 单进程部署，snowflake 节点号固定
const snowflakeNode = 1

func main() {
	configPath := flag.String("config", "", "YAML 配置文件路径，为空时只使用默认值与 DMCHAT_* 环境变量")
	flag.Parse()

	// 启动期日志使用固定 trace_id 串联
	ctx := ctxmeta.WithTraceID(context.Background(), "0")

	// 1) 加载配置（日志尚未初始化，失败直接输出到 stderr）
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2) 初始化日志
	l, err := logger.Build(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	logger.ReplaceGlobal(l)
	defer func() {
		_ = l.Sync()
	}()

	// 3) 基础组件：JWT、ID 生成、协程池
	util.InitJWT(cfg.JWT)
	if err := util.InitSnowflake(snowflakeNode); err != nil {
		logger.Fatal(ctx, "初始化 ID 生成器失败", logger.ErrorField("error", err))
	}
	if err := async.Init(cfg.Async); err != nil {
		logger.Fatal(ctx, "初始化协程池失败", logger.ErrorField("error", err))
	}
	defer func() {
		if err := async.Release(); err != nil {
			logger.Warn(ctx, "释放协程池超时", logger.ErrorField("error", err))
		}
	}()

	// 4) Redis：不可用时降级（会话仅校验 JWT、限流退化为进程内）
	redisClient := initRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
	}

	// 5) 存储：memory / sqlite / mysql 由配置决定，启动后不再切换
	store, err := repository.OpenStore(cfg.Store)
	if err != nil {
		logger.Fatal(ctx, "初始化存储失败",
			logger.String("mode", cfg.Store.Mode),
			logger.ErrorField("error", err),
		)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn(ctx, "关闭存储失败", logger.ErrorField("error", err))
		}
	}()
	logger.Info(ctx, "存储初始化完成", logger.String("mode", cfg.Store.Mode))

	metrics.Register(prometheus.DefaultRegisterer)

	// 6) 组装依赖
	sessionRepo := repository.NewSessionRepository(redisClient)
	userService := service.NewUserService(store.Users, cfg.Delivery.UserCacheSize)
	relationService := service.NewRelationService(store.Users, store.Links, userService)
	messageService := service.NewMessageService(store.Messages, relationService, cfg.Delivery.RequireFriendship)
	authService := service.NewAuthService(store.Users, sessionRepo, cfg.JWT.TTL)

	registry := manager.NewPresenceRegistry()
	msgRouter := delivery.NewRouter(cfg.Delivery, store.Messages, userService, relationService, registry, util.NewMonotonicClock(nil))
	connectSvc := svc.NewConnectService(authService, sessionRepo)

	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Friend:  handler.NewFriendHandler(relationService),
		Message: handler.NewMessageHandler(messageService),
		WS:      handler.NewWSHandler(registry, connectSvc, msgRouter, cfg.Delivery, cfg.Server.AllowedOrigins),
	}
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, redisClient)

	gin.SetMode(cfg.Server.GinMode)
	engine := router.InitRouter(cfg.Server, handlers, authService, limiter)
	srv := server.New(cfg.Server, engine)

	// 7) 后台启动监听
	go func() {
		logger.Info(ctx, "DMChat 服务启动中",
			logger.String("addr", srv.Addr()),
			logger.Bool("require_friendship", cfg.Delivery.RequireFriendship),
		)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "DMChat 服务启动失败", logger.ErrorField("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 8) 优雅停机：先断开全部 WebSocket，再等待进行中的 HTTP 请求
	logger.Info(ctx, "DMChat 服务开始优雅停机")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	registry.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "DMChat 服务优雅停机失败", logger.ErrorField("error", err))
		return
	}
	logger.Info(ctx, "DMChat 服务已退出")
}

func initRedis(ctx context.Context, cfg config.RedisConfig) *goredis.Client {
	client, err := pkgredis.Build(cfg)
	switch {
	case errors.Is(err, pkgredis.ErrDisabled):
		logger.Info(ctx, "未配置 Redis，会话仅校验 JWT")
		return nil
	case err != nil:
		logger.Warn(ctx, "Redis 初始化失败，降级为无 Redis 模式",
			logger.String("addr", cfg.Addr),
			logger.ErrorField("error", err),
		)
		return nil
	}
	pkgredis.ReplaceGlobal(client)
	logger.Info(ctx, "Redis 初始化成功", logger.String("addr", cfg.Addr))
	return client
}
