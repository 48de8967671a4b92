package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"DMChat/apps/chat/internal/converter"
	"DMChat/apps/chat/internal/delivery"
	"DMChat/apps/chat/internal/dto"
	"DMChat/apps/chat/internal/manager"
	"DMChat/apps/chat/internal/middleware"
	"DMChat/apps/chat/internal/service"
	"DMChat/apps/chat/internal/svc"
	"DMChat/config"
	"DMChat/consts"
	"DMChat/pkg/ctxmeta"
	"DMChat/pkg/logger"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// WSHandler 处理 /ws 接入：握手鉴权、房间加入、消息上行与投递
type WSHandler struct {
	registry   *manager.PresenceRegistry
	connectSvc *svc.ConnectService
	router     *delivery.Router
	upgrader   websocket.Upgrader
	sendRate   rate.Limit
	sendBurst  int
}

// NewWSHandler allowedOrigins 为空时不校验来源
func NewWSHandler(
	registry *manager.PresenceRegistry,
	connectSvc *svc.ConnectService,
	router *delivery.Router,
	cfg config.DeliveryConfig,
	allowedOrigins []string,
) *WSHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	sendRate := rate.Inf
	if cfg.SendRate > 0 {
		sendRate = rate.Limit(cfg.SendRate)
	}
	sendBurst := cfg.SendBurst
	if sendBurst <= 0 {
		sendBurst = 1
	}

	return &WSHandler{
		registry:   registry,
		connectSvc: connectSvc,
		router:     router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
		sendRate:  sendRate,
		sendBurst: sendBurst,
	}
}

// connState 单连接状态，只在该连接的读协程中访问
type connState struct {
	session *svc.Session
	client  *manager.Client
	limiter *rate.Limiter
	joined  bool
}

// ServeWS 握手：token 取自 ?token= 或 Authorization 头，鉴权通过后才升级协议。
// 身份在此绑定，后续所有帧复用该身份。
func (h *WSHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.BearerToken(c)
	}

	session, err := h.connectSvc.Authenticate(c.Request.Context(), token, middleware.GetClientIP(c))
	if err != nil {
		h.writeAuthError(c, err)
		return
	}

	connCtx := context.Background()
	if traceID := ctxmeta.TraceIDFromGin(c); traceID != "" {
		connCtx = ctxmeta.WithTraceID(connCtx, traceID)
	}
	connCtx = ctxmeta.WithUserID(connCtx, session.UserID)
	connCtx = ctxmeta.WithChannelID(connCtx, session.ChannelID)
	connCtx = ctxmeta.WithClientIP(connCtx, session.ClientIP)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(connCtx, "WebSocket 升级失败",
			logger.ErrorField("error", err),
		)
		return
	}

	h.handleConnection(connCtx, conn, session)
}

// handleConnection 单连接完整生命周期，断开时从房间移除
func (h *WSHandler) handleConnection(ctx context.Context, conn *websocket.Conn, session *svc.Session) {
	state := &connState{
		session: session,
		client:  manager.NewClient(conn, session.ChannelID, session.UserID),
		limiter: rate.NewLimiter(h.sendRate, h.sendBurst),
	}

	h.connectSvc.OnConnect(ctx, session)
	logger.Info(ctx, "WebSocket 连接已建立",
		logger.String("session_id", session.SessionID),
	)

	state.client.Run(ctx, func(raw []byte) {
		h.handleMessage(ctx, state, raw)
	}, func() {
		h.registry.Leave(state.client)
		h.connectSvc.OnDisconnect(ctx, session)
		logger.Info(ctx, "WebSocket 连接已断开",
			logger.Int("online_count", h.registry.Count()),
		)
	})
}

// handleMessage 处理上行帧，客户端输入错误只回 error 帧，不断开连接
func (h *WSHandler) handleMessage(ctx context.Context, state *connState, raw []byte) {
	envelope, err := converter.ParseEnvelope(raw)
	if err != nil {
		h.sendErrorFrame(ctx, state.client, consts.CodeFrameInvalid)
		return
	}

	switch envelope.Type {
	case dto.FrameHeartbeat:
		h.connectSvc.OnHeartbeat(ctx, state.session)
		h.sendFrame(ctx, state.client, dto.FrameHeartbeatAck, nil)
	case dto.FrameJoin:
		h.handleJoin(ctx, state, envelope)
	case dto.FrameSendMessage:
		h.handleSend(ctx, state, envelope)
	default:
		h.sendErrorFrame(ctx, state.client, consts.CodeFrameUnsupported)
	}
}

// handleJoin 只能加入与握手身份一致的房间，重复加入无副作用
func (h *WSHandler) handleJoin(ctx context.Context, state *connState, envelope *dto.Envelope) {
	var data dto.JoinData
	if err := converter.DecodeData(envelope, &data); err != nil {
		h.sendErrorFrame(ctx, state.client, consts.CodeFrameInvalid)
		return
	}
	if int64(data.Room) != state.session.UserID {
		logger.Warn(ctx, "拒绝加入他人房间",
			logger.Int64("room", int64(data.Room)),
		)
		h.sendErrorFrame(ctx, state.client, consts.CodeRoomMismatch)
		return
	}

	if !h.registry.Join(state.session.UserID, state.client) {
		// 进程正在退出
		state.client.Close()
		return
	}
	if !state.joined {
		state.joined = true
		logger.Info(ctx, "连接已加入房间",
			logger.Int("online_count", h.registry.Count()),
		)
	}
	h.sendFrame(ctx, state.client, dto.FrameJoined, dto.JoinedData{
		Room: strconv.FormatInt(state.session.UserID, 10),
	})
}

// handleSend 发送方固定为握手身份，非法消息记录后丢弃
func (h *WSHandler) handleSend(ctx context.Context, state *connState, envelope *dto.Envelope) {
	if !state.limiter.Allow() {
		h.sendErrorFrame(ctx, state.client, consts.CodeTooManyRequests)
		return
	}

	var data dto.SendMessageData
	if err := converter.DecodeData(envelope, &data); err != nil {
		h.sendErrorFrame(ctx, state.client, consts.CodeFrameInvalid)
		return
	}

	receiverID := int64(data.ReceiverID)
	_, err := h.router.Route(ctx, state.session.UserID, receiverID, data.Message)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidMessage):
		logger.Info(ctx, "丢弃非法消息",
			logger.Int64("receiver_id", receiverID),
			logger.Int("content_length", len(data.Message)),
		)
	case errors.Is(err, service.ErrNotFriends):
		h.sendErrorFrame(ctx, state.client, consts.CodeNotFriend)
	default:
		// 存储失败已在 Router 中记录
		h.sendErrorFrame(ctx, state.client, consts.CodeMessageSendFail)
	}
}

// sendFrame 发送失败说明连接不可写，主动关闭
func (h *WSHandler) sendFrame(ctx context.Context, client *manager.Client, msgType string, data any) {
	payload, err := converter.MarshalEnvelope(msgType, data)
	if err != nil {
		logger.Warn(ctx, "下行帧序列化失败",
			logger.String("type", msgType),
			logger.ErrorField("error", err),
		)
		return
	}
	if !client.Enqueue(payload) {
		client.Close()
	}
}

func (h *WSHandler) sendErrorFrame(ctx context.Context, client *manager.Client, code int32) {
	h.sendFrame(ctx, client, dto.FrameError, dto.ErrorData{
		Code:    code,
		Message: consts.GetMessage(code),
	})
}

// writeAuthError 握手阶段还未升级协议，用 HTTP JSON 返回
func (h *WSHandler) writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, svc.ErrTokenRequired):
		result.FailWithStatus(c, http.StatusUnauthorized, consts.CodeUnauthorized, "")
	case errors.Is(err, svc.ErrTokenInvalid):
		result.FailWithStatus(c, http.StatusUnauthorized, consts.CodeInvalidToken, "Token 无效或已过期")
	default:
		logger.Error(middleware.NewContextWithGin(c), "WebSocket 握手鉴权内部错误",
			logger.ErrorField("error", err),
		)
		result.FailWithStatus(c, http.StatusInternalServerError, consts.CodeInternalError, "")
	}
}
