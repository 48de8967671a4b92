package model

import (
	"fmt"
	"time"
)

// 好友关系状态
const (
	LinkStatusPending  = "pending"
	LinkStatusAccepted = "accepted"
)

// FriendLink 两个用户之间的好友关系。
// 创建时有方向（RequesterId 发起，RecipientId 接收），接受后双向对称。
// 约束：uniqueIndex:uidx_pair_key 保证同一无序用户对最多一条记录；拒绝时硬删除，允许重新申请。
type FriendLink struct {
	Id          int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	RequesterId int64     `gorm:"column:requester_id;not null;index:idx_requester_status;comment:申请方用户id"`
	RecipientId int64     `gorm:"column:recipient_id;not null;index:idx_recipient_status;comment:接收方用户id"`
	PairKey     string    `gorm:"column:pair_key;type:varchar(48);not null;uniqueIndex:uidx_pair_key;comment:无序用户对 lo:hi"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;default:pending;index:idx_requester_status;index:idx_recipient_status;comment:pending/accepted"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (FriendLink) TableName() string { return "friend_links" }

// IsAccepted 是否已成为好友
func (l *FriendLink) IsAccepted() bool {
	return l != nil && l.Status == LinkStatusAccepted
}

// PeerOf 返回关系中 userID 的对端，userID 不属于该关系时返回 0。
func (l *FriendLink) PeerOf(userID int64) int64 {
	switch userID {
	case l.RequesterId:
		return l.RecipientId
	case l.RecipientId:
		return l.RequesterId
	default:
		return 0
	}
}

// PairKey 构造无序用户对键，小 id 在前。
func PairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
