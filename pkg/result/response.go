package result

import (
	"DMChat/consts"
	"DMChat/pkg/ctxmeta"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构。
// 变更类接口只会出现 success 或 error 其中之一；查询类接口把结果放在 data。
type Response struct {
	Code    int32  `json:"code"`
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
	TraceId string `json:"trace_id,omitempty"`
}

// Result 按给定 HTTP 状态码写出响应。
func Result(c *gin.Context, status int, resp Response) {
	resp.TraceId = ctxmeta.TraceIDFromGin(c)
	c.JSON(status, resp)
}

// Success 返回成功响应，message 为空时使用 success 码的默认文案。
func Success(c *gin.Context, message string, data any) {
	if message == "" {
		message = consts.GetMessage(consts.CodeSuccess)
	}
	Result(c, http.StatusOK, Response{
		Code:    consts.CodeSuccess,
		Success: message,
		Data:    data,
	})
}

// Fail 返回业务失败响应（HTTP 200，错误信息放在 error 字段）。
func Fail(c *gin.Context, code int32) {
	FailWithStatus(c, http.StatusOK, code, "")
}

// FailWithMessage 返回业务失败响应并自定义错误信息。
func FailWithMessage(c *gin.Context, code int32, message string) {
	FailWithStatus(c, http.StatusOK, code, message)
}

// FailWithStatus 以指定 HTTP 状态码返回失败响应，用于 401/403/500 等场景。
func FailWithStatus(c *gin.Context, status int, code int32, message string) {
	if message == "" {
		message = consts.GetMessage(code)
	}
	Result(c, status, Response{
		Code:  code,
		Error: message,
	})
}

// AbortWithStatus 写出失败响应并中断中间件链。
func AbortWithStatus(c *gin.Context, status int, code int32, message string) {
	FailWithStatus(c, status, code, message)
	c.Abort()
}
