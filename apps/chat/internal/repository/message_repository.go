package repository

import (
	"DMChat/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// messageRepositoryImpl 消息数据访问层实现
type messageRepositoryImpl struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息仓储实例
func NewMessageRepository(db *gorm.DB) IMessageRepository {
	return &messageRepositoryImpl{db: db}
}

// Create 单条 INSERT，天然原子
func (r *messageRepositoryImpl) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	msg.PairKey = model.PairKey(msg.SenderId, msg.ReceiverId)
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return msg, nil
}

// ListByPair 固定读主库，刚写入的消息立即可见，历史与实时推送不出现差异
func (r *messageRepositoryImpl) ListByPair(ctx context.Context, a, b int64) ([]*model.Message, error) {
	var msgs []*model.Message
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("pair_key = ?", model.PairKey(a, b)).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return msgs, nil
}
