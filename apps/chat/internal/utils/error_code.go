package utils

import (
	"DMChat/apps/chat/internal/service"
)

// ExtractErrorCode 提取业务错误码，非业务错误统一视为服务端错误
func ExtractErrorCode(err error) int32 {
	return service.CodeOf(err)
}
