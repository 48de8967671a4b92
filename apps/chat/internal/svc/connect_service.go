package svc

import (
	"context"
	"errors"
	"strings"
	"time"

	"DMChat/apps/chat/internal/metrics"
	"DMChat/apps/chat/internal/repository"
	"DMChat/apps/chat/internal/service"
	"DMChat/pkg/async"
	"DMChat/pkg/logger"
	"DMChat/pkg/util"
)

const activeWriteTimeout = 3 * time.Second

var (
	// ErrTokenRequired 握手参数与请求头都没有 token
	ErrTokenRequired = errors.New("token is required")
	// ErrTokenInvalid token 非法、过期或会话已登出
	ErrTokenInvalid = errors.New("token is invalid")
)

// Session 连接鉴权后的身份，整个连接生命周期复用，不再重复解析 token
type Session struct {
	UserID    int64
	SessionID string
	ChannelID int64
	ClientIP  string
}

// ConnectService 连接层业务：握手鉴权与活跃时间维护
type ConnectService struct {
	auth     service.AuthService
	sessions repository.ISessionRepository
	now      func() time.Time
}

// NewConnectService 创建连接服务
func NewConnectService(auth service.AuthService, sessions repository.ISessionRepository) *ConnectService {
	return &ConnectService{
		auth:     auth,
		sessions: sessions,
		now:      time.Now,
	}
}

// Authenticate 校验握手 token 并分配 channel 句柄。
// 会话校验的 Redis 降级策略由 AuthService 统一处理。
func (s *ConnectService) Authenticate(ctx context.Context, token, clientIP string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		metrics.AuthRejections.WithLabelValues("ws_token_missing").Inc()
		return nil, ErrTokenRequired
	}

	claims, err := s.auth.VerifySession(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			metrics.AuthRejections.WithLabelValues("ws_token_invalid").Inc()
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	return &Session{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		ChannelID: util.GenID(),
		ClientIP:  strings.TrimSpace(clientIP),
	}, nil
}

// OnConnect 连接建立后写入活跃时间
func (s *ConnectService) OnConnect(ctx context.Context, session *Session) {
	s.touchActive(ctx, session)
}

// OnHeartbeat 收到心跳后刷新活跃时间
func (s *ConnectService) OnHeartbeat(ctx context.Context, session *Session) {
	s.touchActive(ctx, session)
}

// OnDisconnect 连接断开。活跃时间随 TTL 自然过期，这里只记录日志
func (s *ConnectService) OnDisconnect(ctx context.Context, session *Session) {
	logger.Debug(ctx, "连接会话结束",
		logger.String("session_id", session.SessionID),
	)
}

// touchActive 异步写 Redis，失败只记录日志，不影响连接
func (s *ConnectService) touchActive(ctx context.Context, session *Session) {
	if s.sessions == nil || session == nil {
		return
	}
	ts := s.now().Unix()
	userID, channelID := session.UserID, session.ChannelID

	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := s.sessions.SetActiveTimestamp(runCtx, userID, channelID, ts); err != nil {
			logger.Warn(runCtx, "更新连接活跃时间失败",
				logger.ErrorField("error", err),
			)
		}
	}, activeWriteTimeout)
}
