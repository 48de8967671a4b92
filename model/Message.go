package model

import "time"

// Message 点对点消息，只追加不修改。
// idx_pair_sent 支撑按用户对的历史查询（pair_key + sent_at + id 排序）。
type Message struct {
	Id         int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	SenderId   int64     `gorm:"column:sender_id;not null;comment:发送方用户id"`
	ReceiverId int64     `gorm:"column:receiver_id;not null;comment:接收方用户id"`
	PairKey    string    `gorm:"column:pair_key;type:varchar(48);not null;index:idx_pair_sent,priority:1;comment:无序用户对 lo:hi"`
	Content    string    `gorm:"column:content;type:text;not null;comment:消息内容"`
	SentAt     time.Time `gorm:"column:sent_at;not null;index:idx_pair_sent,priority:2;comment:发送时间 UTC"`
}

func (Message) TableName() string { return "messages" }
