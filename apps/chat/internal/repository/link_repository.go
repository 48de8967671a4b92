package repository

import (
	"DMChat/model"
	"context"

	"gorm.io/gorm"
)

// linkRepositoryImpl 好友关系数据访问层实现
// 唯一性依赖 uidx_pair_key，并发申请时只有一条 INSERT 成功，其余得到 ErrDuplicateKey
type linkRepositoryImpl struct {
	db *gorm.DB
}

// NewLinkRepository 创建好友关系仓储实例
func NewLinkRepository(db *gorm.DB) ILinkRepository {
	return &linkRepositoryImpl{db: db}
}

func (r *linkRepositoryImpl) Create(ctx context.Context, link *model.FriendLink) (*model.FriendLink, error) {
	link.PairKey = model.PairKey(link.RequesterId, link.RecipientId)
	if link.Status == "" {
		link.Status = model.LinkStatusPending
	}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return link, nil
}

func (r *linkRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.FriendLink, error) {
	var link model.FriendLink
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &link, nil
}

func (r *linkRepositoryImpl) GetByPair(ctx context.Context, a, b int64) (*model.FriendLink, error) {
	var link model.FriendLink
	if err := r.db.WithContext(ctx).Where("pair_key = ?", model.PairKey(a, b)).First(&link).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &link, nil
}

// Accept 条件更新，状态不是 pending 时不修改任何行
func (r *linkRepositoryImpl) Accept(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.FriendLink{}).
		Where("id = ? AND status = ?", id, model.LinkStatusPending).
		Update("status", model.LinkStatusAccepted)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeletePending 硬删除，释放 pair_key 以便重新申请
func (r *linkRepositoryImpl) DeletePending(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.LinkStatusPending).
		Delete(&model.FriendLink{})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListAccepted 列表查询在配置了只读副本时由 dbresolver 路由到副本
func (r *linkRepositoryImpl) ListAccepted(ctx context.Context, userID int64) ([]*model.FriendLink, error) {
	var links []*model.FriendLink
	err := r.db.WithContext(ctx).
		Where("status = ? AND (requester_id = ? OR recipient_id = ?)", model.LinkStatusAccepted, userID, userID).
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return links, nil
}

func (r *linkRepositoryImpl) ListIncomingPending(ctx context.Context, userID int64) ([]*model.FriendLink, error) {
	var links []*model.FriendLink
	err := r.db.WithContext(ctx).
		Where("status = ? AND recipient_id = ?", model.LinkStatusPending, userID).
		Order("id ASC").
		Find(&links).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return links, nil
}
