package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"DMChat/apps/chat/internal/metrics"
	"DMChat/apps/chat/internal/service"
	"DMChat/consts"
	"DMChat/pkg/logger"
	"DMChat/pkg/result"
	"DMChat/pkg/util"

	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID = "user_id"
	ctxKeyClaims = "claims"
)

// SessionVerifier 校验 token 并返回会话信息
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*util.Claims, error)
}

// BearerToken 解析 "Authorization: Bearer <token>"，格式不对返回空串
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// JWTAuthMiddleware 校验 Bearer token，通过后把用户 id 与 claims 写入 Context
func JWTAuthMiddleware(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			// 客户端未登录属于正常业务流程，不记录日志
			metrics.AuthRejections.WithLabelValues("http_missing").Inc()
			result.AbortWithStatus(c, http.StatusUnauthorized, consts.CodeUnauthorized, "未提供认证信息")
			return
		}

		token := BearerToken(c)
		if token == "" {
			metrics.AuthRejections.WithLabelValues("http_malformed").Inc()
			result.AbortWithStatus(c, http.StatusUnauthorized, consts.CodeUnauthorized, "认证格式错误")
			return
		}

		claims, err := verifier.VerifySession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				metrics.AuthRejections.WithLabelValues("http_invalid").Inc()
				result.AbortWithStatus(c, http.StatusUnauthorized, consts.CodeInvalidToken, "Token 无效或已过期")
				return
			}
			logger.Error(NewContextWithGin(c), "会话校验内部错误",
				logger.ErrorField("error", err),
			)
			result.AbortWithStatus(c, http.StatusInternalServerError, consts.CodeInternalError, "")
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

// GetUserID 当前登录用户 id
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// GetClaims 当前会话的 claims，登出时需要 session id
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	v, exists := c.Get(ctxKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*util.Claims)
	return claims, ok && claims != nil
}
