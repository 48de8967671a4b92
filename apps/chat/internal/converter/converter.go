package converter

import (
	"DMChat/apps/chat/internal/dto"
	"DMChat/apps/chat/internal/service"
	"DMChat/model"
	"DMChat/pkg/util"
)

// ==================== User 转换函数 ====================

// ModelToUserInfo 转换为对外用户信息，不包含密码哈希
func ModelToUserInfo(user *model.User) *dto.UserInfo {
	if user == nil {
		return nil
	}
	return &dto.UserInfo{
		ID:       user.Id,
		Email:    user.Email,
		Username: user.Username,
	}
}

// ==================== Friend 相关转换函数 ====================

// ModelToFriendItem 好友列表项
func ModelToFriendItem(user *model.User) *dto.FriendItem {
	if user == nil {
		return nil
	}
	return &dto.FriendItem{
		ID:       user.Id,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ModelListToFriendItems 批量转换好友列表
func ModelListToFriendItems(users []*model.User) []*dto.FriendItem {
	result := make([]*dto.FriendItem, 0, len(users))
	for _, user := range users {
		if item := ModelToFriendItem(user); item != nil {
			result = append(result, item)
		}
	}
	return result
}

// IncomingToRequestItems 收到的申请列表
func IncomingToRequestItems(reqs []*service.IncomingRequest) []*dto.FriendRequestItem {
	result := make([]*dto.FriendRequestItem, 0, len(reqs))
	for _, req := range reqs {
		if req == nil || req.Link == nil {
			continue
		}
		item := &dto.FriendRequestItem{
			RequestID:   req.Link.Id,
			RequesterID: req.Link.RequesterId,
			CreatedAt:   req.Link.CreatedAt.UnixMilli(),
		}
		if req.Requester != nil {
			item.RequesterUsername = req.Requester.Username
		}
		result = append(result, item)
	}
	return result
}

// ==================== Message 转换函数 ====================

// ModelToMessageItem 历史与实时下行共用，时间统一取持久化的 SentAt
func ModelToMessageItem(msg *model.Message) *dto.MessageItem {
	if msg == nil {
		return nil
	}
	return &dto.MessageItem{
		SenderID:   msg.SenderId,
		ReceiverID: msg.ReceiverId,
		Message:    msg.Content,
		Timestamp:  util.FormatClock(msg.SentAt),
	}
}

// ModelListToMessageItems 批量转换，nil 输入返回空数组
func ModelListToMessageItems(msgs []*model.Message) []*dto.MessageItem {
	result := make([]*dto.MessageItem, 0, len(msgs))
	for _, msg := range msgs {
		if item := ModelToMessageItem(msg); item != nil {
			result = append(result, item)
		}
	}
	return result
}
