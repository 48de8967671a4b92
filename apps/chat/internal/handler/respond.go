package handler

import (
	"context"
	"net/http"

	"DMChat/apps/chat/internal/utils"
	"DMChat/consts"
	"DMChat/pkg/logger"
	"DMChat/pkg/result"

	"github.com/gin-gonic/gin"
)

// respondError 业务错误直接返回给客户端；其他错误记录日志并返回 500
func respondError(ctx context.Context, c *gin.Context, err error, logMsg string) {
	code := utils.ExtractErrorCode(err)
	if consts.IsNonServerError(code) {
		// 业务逻辑失败属于正常流程，不记录日志
		result.Fail(c, code)
		return
	}

	logger.Error(ctx, logMsg, logger.ErrorField("error", err))
	result.FailWithStatus(c, http.StatusInternalServerError, consts.CodeInternalError, "")
}

// unauthorized 理论上已被认证中间件拦截
func unauthorized(c *gin.Context) {
	result.FailWithStatus(c, http.StatusUnauthorized, consts.CodeUnauthorized, "")
}
