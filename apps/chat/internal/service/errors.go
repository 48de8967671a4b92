package service

import (
	"DMChat/consts"
	"errors"
)

// BizError 业务错误，携带 consts 中定义的错误码。
// 同一错误码对应唯一的哨兵实例，调用方用 errors.Is 判断。
type BizError struct {
	Code int32
}

func (e *BizError) Error() string {
	return consts.GetMessage(e.Code)
}

func newBizError(code int32) *BizError {
	return &BizError{Code: code}
}

var (
	ErrAlreadySelf     = newBizError(consts.CodeAddSelf)
	ErrUserNotFound    = newBizError(consts.CodeUserNotFound)
	ErrLinkNotFound    = newBizError(consts.CodeFriendRequestAbsent)
	ErrForbidden       = newBizError(consts.CodeNotRequestRecipient)
	ErrAlreadyPending  = newBizError(consts.CodeFriendRequestSent)
	ErrAlreadyFriends  = newBizError(consts.CodeAlreadyFriend)
	ErrUnknownAction   = newBizError(consts.CodeUnknownAction)
	ErrSearchTermEmpty = newBizError(consts.CodeSearchTermEmpty)
	ErrNotFriends      = newBizError(consts.CodeNotFriend)
	ErrInvalidMessage  = newBizError(consts.CodeMessageInvalid)
	ErrEmailTaken      = newBizError(consts.CodeEmailTaken)
	ErrUsernameTaken   = newBizError(consts.CodeUsernameTaken)
	ErrBadCredential   = newBizError(consts.CodeInvalidCredentials)
	ErrParam           = newBizError(consts.CodeParamError)
	ErrUnauthorized    = newBizError(consts.CodeUnauthorized)
)

// CodeOf 提取业务错误码，非业务错误返回 CodeInternalError。
func CodeOf(err error) int32 {
	if err == nil {
		return consts.CodeSuccess
	}
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Code
	}
	return consts.CodeInternalError
}
