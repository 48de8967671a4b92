package consts

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError       = 10001 // 参数验证失败
	CodeBodyError        = 10002 // 请求体格式错误
	CodeResourceNotFound = 10003 // 资源不存在
	CodeMethodNotAllowed = 10004 // 请求方法不允许
	CodeTooManyRequests  = 10005 // 请求过于频繁
	CodeBodyTooLarge     = 10006 // 请求体过大
	CodeSearchTermEmpty  = 10007 // 搜索词为空
	CodeUnknownAction    = 10008 // 未知操作
)

// 认证错误 (2xxxx)
const (
	CodeUnauthorized       = 20001 // 未认证
	CodeInvalidToken       = 20002 // Token 无效
	CodeTokenExpired       = 20003 // Token 已过期
	CodePermissionDeny     = 20004 // 权限不足
	CodeInvalidCredentials = 20005 // 邮箱或密码错误
)

// 用户模块错误 (11xxx)
const (
	CodeUserNotFound  = 11001 // 用户不存在
	CodeEmailTaken    = 11002 // 邮箱已被注册
	CodeUsernameTaken = 11003 // 用户名已被占用
)

// 好友模块错误 (12xxx)
const (
	CodeAlreadyFriend       = 12001 // 已经是好友
	CodeFriendRequestSent   = 12002 // 好友申请已发送
	CodeNotFriend           = 12003 // 不存在该好友关系
	CodeAddSelf             = 12004 // 不能添加自己
	CodeFriendRequestAbsent = 12005 // 好友申请不存在
	CodeNotRequestRecipient = 12006 // 不是该申请的接收方
)

// 消息模块错误 (13xxx)
const (
	CodeMessageInvalid   = 13001 // 消息内容或接收方不合法
	CodeMessageSendFail  = 13002 // 消息发送失败
	CodeFrameInvalid     = 13003 // 帧格式错误
	CodeFrameUnsupported = 13004 // 不支持的帧类型
	CodeRoomMismatch     = 13005 // 只能加入自己的房间
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
	CodeTimeoutError       = 30003 // 请求超时
)

// 错误消息映射
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:       "参数验证失败",
	CodeBodyError:        "请求体格式错误",
	CodeResourceNotFound: "资源不存在",
	CodeMethodNotAllowed: "请求方法不允许",
	CodeTooManyRequests:  "请求过于频繁",
	CodeBodyTooLarge:     "请求体过大",
	CodeSearchTermEmpty:  "请输入邮箱或用户名",
	CodeUnknownAction:    "未知操作",

	// 认证错误
	CodeUnauthorized:       "未认证",
	CodeInvalidToken:       "Token 无效",
	CodeTokenExpired:       "Token 已过期",
	CodePermissionDeny:     "权限不足",
	CodeInvalidCredentials: "邮箱或密码错误",

	// 用户模块
	CodeUserNotFound:  "用户不存在",
	CodeEmailTaken:    "该邮箱已被注册",
	CodeUsernameTaken: "该用户名已被占用",

	// 好友模块
	CodeAlreadyFriend:       "已经是好友",
	CodeFriendRequestSent:   "好友申请已发送",
	CodeNotFriend:           "对方不是你的好友",
	CodeAddSelf:             "不能添加自己为好友",
	CodeFriendRequestAbsent: "好友申请不存在",
	CodeNotRequestRecipient: "无权处理该好友申请",

	// 消息模块
	CodeMessageInvalid:   "消息不合法",
	CodeMessageSendFail:  "消息发送失败",
	CodeFrameInvalid:     "帧格式错误",
	CodeFrameUnsupported: "不支持的消息类型",
	CodeRoomMismatch:     "只能加入自己的房间",

	// 服务端错误
	CodeInternalError:      "服务器内部错误",
	CodeServiceUnavailable: "服务暂不可用",
	CodeTimeoutError:       "请求超时",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}

// IsNonServerError 判断错误码是否属于业务错误（非服务端错误）。
// 业务错误直接返回给客户端，服务端错误需要记录日志。
func IsNonServerError(code int32) bool {
	return code != CodeSuccess && (code < 30000 || code >= 40000)
}
