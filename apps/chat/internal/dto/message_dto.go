package dto

// MessageItem 消息展示结构。
// 历史查询与 receive_message 下行帧共用，timestamp 为 UTC HH:MM。
type MessageItem struct {
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}
