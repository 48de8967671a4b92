package repository

import (
	"DMChat/model"
	"context"
	"time"
)

// ==================== 关系存储 ====================

// IUserRepository 用户数据访问接口
type IUserRepository interface {
	// Create 创建用户，邮箱或用户名冲突返回 ErrDuplicateKey
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// GetByID 根据 ID 查询用户，不存在返回 ErrRecordNotFound
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByEmail 根据邮箱查询用户
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByUsername 根据用户名查询用户
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// GetByEmailOrUsername 邮箱或用户名任一匹配即返回，邮箱优先
	GetByEmailOrUsername(ctx context.Context, term string) (*model.User, error)

	// ListByIDs 批量查询用户，不存在的 ID 直接跳过
	ListByIDs(ctx context.Context, ids []int64) ([]*model.User, error)
}

// ILinkRepository 好友关系数据访问接口
type ILinkRepository interface {
	// Create 创建待确认关系，同一无序用户对已存在记录时返回 ErrDuplicateKey
	Create(ctx context.Context, link *model.FriendLink) (*model.FriendLink, error)

	// GetByID 根据 ID 查询关系
	GetByID(ctx context.Context, id int64) (*model.FriendLink, error)

	// GetByPair 查询无序用户对的关系（任一方向）
	GetByPair(ctx context.Context, a, b int64) (*model.FriendLink, error)

	// Accept 将 pending 关系置为 accepted；关系不存在或不是 pending 时返回 ErrRecordNotFound
	Accept(ctx context.Context, id int64) error

	// DeletePending 删除 pending 关系；关系不存在或不是 pending 时返回 ErrRecordNotFound
	DeletePending(ctx context.Context, id int64) error

	// ListAccepted 查询用户的全部已接受关系
	ListAccepted(ctx context.Context, userID int64) ([]*model.FriendLink, error)

	// ListIncomingPending 查询发给用户、尚未处理的申请
	ListIncomingPending(ctx context.Context, userID int64) ([]*model.FriendLink, error)
}

// ==================== 消息存储 ====================

//go:generate mockgen -destination=mocks/mock_message_repository.go -package=mocks DMChat/apps/chat/internal/repository IMessageRepository

// IMessageRepository 消息数据访问接口
type IMessageRepository interface {
	// Create 追加一条消息，成功后 msg.Id 被回填
	Create(ctx context.Context, msg *model.Message) (*model.Message, error)

	// ListByPair 按 sent_at、id 升序返回无序用户对的全部消息
	ListByPair(ctx context.Context, a, b int64) ([]*model.Message, error)
}

// ==================== 会话与在线状态（Redis） ====================

// ISessionRepository 会话 Token 与活跃时间的数据访问接口。
// Redis 未启用时所有写操作为空操作，VerifyAccessToken 返回 ErrRedisDisabled。
type ISessionRepository interface {
	// StoreAccessToken 保存 token 摘要
	StoreAccessToken(ctx context.Context, userID int64, sessionID, token string, expire time.Duration) error

	// VerifyAccessToken 校验 token 摘要，key 不存在返回 false
	VerifyAccessToken(ctx context.Context, userID int64, sessionID, token string) (bool, error)

	// DeleteAccessToken 删除 token 摘要，使会话立即失效
	DeleteAccessToken(ctx context.Context, userID int64, sessionID string) error

	// SetActiveTimestamp 记录连接的最近活跃时间
	SetActiveTimestamp(ctx context.Context, userID, channelID int64, ts int64) error
}
