package service

import (
	"DMChat/model"
	"DMChat/pkg/util"
	"context"
)

// 好友申请处理动作
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// IncomingRequest 待处理的好友申请及申请人信息
type IncomingRequest struct {
	Link      *model.FriendLink
	Requester *model.User
}

// LoginResult 登录成功后下发给客户端的会话信息
type LoginResult struct {
	User      *model.User
	Token     string
	SessionID string
}

// UserService 已知用户查询，带进程内 LRU 缓存
type UserService interface {
	// Exists 用户是否存在
	Exists(ctx context.Context, userID int64) (bool, error)

	// GetByID 查询用户，不存在返回 ErrUserNotFound
	GetByID(ctx context.Context, userID int64) (*model.User, error)
}

// RelationService 好友关系状态机：none -> pending -> accepted | removed
type RelationService interface {
	// RequestFriend 发起好友申请
	RequestFriend(ctx context.Context, requesterID, targetID int64) (*model.FriendLink, error)

	// SearchAndRequest 按邮箱或用户名查找目标并发起申请，返回目标用户
	SearchAndRequest(ctx context.Context, requesterID int64, term string) (*model.User, error)

	// RespondToRequest 接收方同意或拒绝申请
	RespondToRequest(ctx context.Context, recipientID, linkID int64, action string) (*model.FriendLink, error)

	// AreFriends 无序用户对是否存在已接受的关系
	AreFriends(ctx context.Context, a, b int64) (bool, error)

	// ListFriends 好友列表
	ListFriends(ctx context.Context, userID int64) ([]*model.User, error)

	// ListIncoming 收到的待处理申请
	ListIncoming(ctx context.Context, userID int64) ([]*IncomingRequest, error)
}

// MessageService 历史消息查询
type MessageService interface {
	// History 查询两人之间的全部消息，按发送时间升序
	History(ctx context.Context, requesterID, peerID int64) ([]*model.Message, error)
}

// AuthService 注册、登录与会话校验
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *util.Claims) error

	// VerifySession 校验 token 签名、有效期以及会话是否仍在 Redis 中
	VerifySession(ctx context.Context, token string) (*util.Claims, error)
}
