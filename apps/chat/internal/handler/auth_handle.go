package handler

import (
	"DMChat/apps/chat/internal/converter"
	"DMChat/apps/chat/internal/dto"
	"DMChat/apps/chat/internal/middleware"
	"DMChat/apps/chat/internal/service"
	"DMChat/consts"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
)

// AuthHandler 注册、登录、登出
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register 注册
// @Summary 注册
// @Tags 认证接口
// @Produce json
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		result.Fail(c, consts.CodeParamError)
		return
	}

	user, err := h.authService.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		respondError(ctx, c, err, "注册服务内部错误")
		return
	}

	result.Success(c, "注册成功，请登录", converter.ModelToUserInfo(user))
}

// Login 登录
// @Summary 登录
// @Tags 认证接口
// @Produce json
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		result.Fail(c, consts.CodeParamError)
		return
	}

	res, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(ctx, c, err, "登录服务内部错误")
		return
	}

	result.Success(c, "登录成功", &dto.LoginResponse{
		Token:     res.Token,
		SessionID: res.SessionID,
		User:      converter.ModelToUserInfo(res.User),
	})
}

// Logout 登出，使当前会话 token 立即失效
// @Summary 登出
// @Tags 认证接口
// @Produce json
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	claims, ok := middleware.GetClaims(c)
	if !ok {
		unauthorized(c)
		return
	}

	if err := h.authService.Logout(ctx, claims); err != nil {
		respondError(ctx, c, err, "登出服务内部错误")
		return
	}

	result.Success(c, "已退出登录", nil)
}
